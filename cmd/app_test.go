package main

import (
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"errors"
	"github.com/panjf2000/ants/v2"
	"testing"
	"time"
)

func TestRoutesFor(t *testing.T) {
	routes := routesFor([]domain.StageName{domain.FinalizationStage})
	if len(routes) != 2 {
		t.Fatalf("expected both finalization routes, got %v", routes)
	}
	for _, route := range routes {
		if route.Stage != domain.FinalizationStage {
			t.Fatalf("unexpected route %s", route)
		}
	}

	if got := routesFor([]domain.StageName{"unknown"}); len(got) != 0 {
		t.Fatalf("expected no routes, got %v", got)
	}
}

func TestStagesOf(t *testing.T) {
	stages := stagesOf(domain.DefaultRoutes)
	want := []domain.StageName{
		domain.NarrationDispatchStage,
		domain.AudioPostProcessingStage,
		domain.VisualExtractionStage,
		domain.VideoAssemblyStage,
		domain.FinalizationStage,
	}
	if len(stages) != len(want) {
		t.Fatalf("expected %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, stages)
		}
	}
}

func TestLambdaFunctions(t *testing.T) {
	functions := lambdaFunctions()
	if functions[0] != intakeFunction || len(functions) != 6 {
		t.Fatalf("unexpected functions %v", functions)
	}
}

func TestWorkerPools_WatchesDoNotStarveFanout(t *testing.T) {
	pools, err := newWorkerPools(&config.WorkerConfig{PoolSize: 2, FanoutPoolSize: 2, WatchPoolSize: 2}, func(interface{}) {})
	if err != nil {
		t.Fatal("Failed to create worker pools:", err)
	}
	defer pools.release()

	hold := make(chan struct{})
	defer close(hold)
	for i := 0; i < 2; i++ {
		if err := pools.watch.Submit(func() { <-hold }); err != nil {
			t.Fatal("Failed to submit watch:", err)
		}
	}

	if err := pools.watch.Submit(func() {}); !errors.Is(err, ants.ErrPoolOverload) {
		t.Fatalf("a full watch pool must reject instead of blocking, got %v", err)
	}

	ran := make(chan struct{})
	submitted := make(chan error, 1)
	go func() {
		submitted <- pools.fanout.Submit(func() { close(ran) })
	}()

	select {
	case err := <-submitted:
		if err != nil {
			t.Fatal("Failed to submit fan-out task:", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out submit blocked while watches were running")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out task did not run while watches were running")
	}
}
