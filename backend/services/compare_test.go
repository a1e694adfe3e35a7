// ABOUTME: Tests for instance type comparison
// ABOUTME: Validates ranking order, degenerate filtering, and unknown types

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/models"
)

func newTestComparer(t *testing.T) *Comparer {
	t.Helper()
	return NewComparer(NewPlanner(), catalog.Default(), 2)
}

func TestCompare_WholeCatalogSortedByCost(t *testing.T) {
	plans, err := newTestComparer(t).Compare(context.Background(), exampleInput(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(plans) != len(catalog.Default().Named()) {
		t.Errorf("Expected a plan per named type, got %d", len(plans))
	}
	for i := 1; i < len(plans); i++ {
		if plans[i-1].MonthlyCost > plans[i].MonthlyCost {
			t.Errorf("Plans not sorted by cost at %d: %v > %v", i, plans[i-1].MonthlyCost, plans[i].MonthlyCost)
		}
	}
	for _, plan := range plans {
		if plan.InstanceType == "" {
			t.Error("Expected every plan to carry its instance type")
		}
		if plan.InstanceType == models.CustomInstanceType {
			t.Error("Custom should not be part of a whole-catalog comparison")
		}
	}
}

func TestCompare_SubsetUsesCatalogCapacity(t *testing.T) {
	in := exampleInput()
	in.NodeVCPU = 1
	in.NodeMemoryGiB = 1

	plans, err := newTestComparer(t).Compare(context.Background(), in, []string{"m5.4xlarge", "m5.large"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("Expected 2 plans, got %d", len(plans))
	}

	for _, plan := range plans {
		if plan.InstanceType == "m5.4xlarge" && plan.RequiredNodeCount != 4 {
			t.Errorf("Expected 4 m5.4xlarge nodes, got %d", plan.RequiredNodeCount)
		}
		// m5.large: 2 vCPU × 0.9 = 1.8 usable, 50 / 1.8 = 27.8
		if plan.InstanceType == "m5.large" && plan.RequiredNodeCount != 28 {
			t.Errorf("Expected 28 m5.large nodes, got %d", plan.RequiredNodeCount)
		}
	}
}

func TestCompare_TiesBrokenByInstanceType(t *testing.T) {
	cat, err := catalog.Parse([]byte("instances:\n  - {id: b-type, vcpu: 4, memory_gib: 16, monthly_cost: 100}\n  - {id: a-type, vcpu: 4, memory_gib: 16, monthly_cost: 100}\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	plans, err := NewComparer(NewPlanner(), cat, 1).Compare(context.Background(), exampleInput(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plans) != 2 || plans[0].InstanceType != "a-type" {
		t.Errorf("Expected a-type first, got %+v", plans)
	}
}

func TestCompare_SkipsDegeneratePlans(t *testing.T) {
	in := exampleInput()
	in.PodMemoryGiB = 0

	plans, err := newTestComparer(t).Compare(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("Expected no plans for a degenerate workload, got %d", len(plans))
	}
}

func TestCompare_UnknownInstanceType(t *testing.T) {
	_, err := newTestComparer(t).Compare(context.Background(), exampleInput(), []string{"m5.large", "z9.mega"})
	if !errors.Is(err, catalog.ErrUnknownInstance) {
		t.Errorf("Expected ErrUnknownInstance, got %v", err)
	}
}

func TestCompare_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestComparer(t).Compare(ctx, exampleInput(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewComparer_DefaultsConcurrency(t *testing.T) {
	c := NewComparer(NewPlanner(), catalog.Default(), 0)
	if c.concurrency != DefaultCompareConcurrency {
		t.Errorf("Expected concurrency %d, got %d", DefaultCompareConcurrency, c.concurrency)
	}
}

func TestCompare_SkipsTypesOverNodeBudget(t *testing.T) {
	in := exampleInput()
	in.PeakPods = MaxPeakPods
	in.PodCPUMillicores = 3000

	plans, err := newTestComparer(t).Compare(context.Background(), in, []string{"t3.medium", "m5.4xlarge"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(plans) != 1 || plans[0].InstanceType != "m5.4xlarge" {
		t.Fatalf("Expected only m5.4xlarge within the node budget, got %+v", plans)
	}
	if plans[0].RequiredNodeCount != 2084 {
		t.Errorf("Expected 2084 nodes, got %d", plans[0].RequiredNodeCount)
	}
}
