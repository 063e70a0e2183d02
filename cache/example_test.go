package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/dailypuzzle/cache"
	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/store"
)

type staticGenerator string

func (g staticGenerator) Generate(context.Context) (string, error) {
	return string(g), nil
}

func ExampleOrchestrator_TodaysPuzzle() {
	ctx := context.Background()
	durable := store.NewMemoryStore()
	gen := staticGenerator(`{"theme":"Space","words":["orbit","comet"],"clues":{"ORBIT":"Path around a star","COMET":"Icy body with a tail"}}`)

	o, err := cache.NewOrchestrator(nil, durable, gen, cache.WithKeyer(daykey.UTC()))
	if err != nil {
		panic(err)
	}

	now := time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC)
	p, err := o.TodaysPuzzle(ctx, now)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.Theme(), p.Words())

	days, _ := o.Days(ctx)
	fmt.Println(days)
	// Output:
	// Space [ORBIT COMET]
	// [2024-03-09]
}
