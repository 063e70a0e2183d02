// Package cache decides, for a given instant, whether today's puzzle can be
// served from memory, read from the durable store, or must be generated.
//
// The Orchestrator checks two tiers in order:
//
//  1. The memory tier (Tier), which holds at most one Entry: a puzzle and
//     the day key it was produced for. A hit makes no external calls.
//  2. The durable tier (Durable), one object per day. A hit costs one read,
//     never a generation, and refills the memory tier.
//
// On a miss it calls the Generator, normalises the reply, writes it to the
// durable tier (best effort), then replaces the memory entry. Generation
// and normalisation failures leave both tiers untouched.
//
// Policy selects how concurrent misses behave. DefaultPolicy collapses
// them into one generation per day key per process (single-flight).
// AtLeastOncePolicy lets every miss generate and write; the last writer
// wins. Neither gives exactly-once generation across processes.
package cache
