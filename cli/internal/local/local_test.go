// ABOUTME: Tests for the offline planner
// ABOUTME: Checks it agrees with the reference workload and rejects bad input

package local

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/models"
)

func TestPlan_DefaultWorkload(t *testing.T) {
	p := New(nil)

	result, err := p.Plan(context.Background(), models.DefaultPlanRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RequiredNodeCount != 4 {
		t.Errorf("expected 4 nodes, got %d", result.RequiredNodeCount)
	}
	if math.Abs(result.MonthlyCost-2764.80) > 1e-6 {
		t.Errorf("expected monthly 2764.80, got %v", result.MonthlyCost)
	}
	if result.InstanceType != "m5.4xlarge" {
		t.Errorf("expected instance type m5.4xlarge, got %q", result.InstanceType)
	}
}

func TestPlan_EmptyInstanceTypeUsesDefault(t *testing.T) {
	req := models.DefaultPlanRequest()
	req.InstanceType = ""

	result, err := New(nil).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InstanceType != "m5.4xlarge" {
		t.Errorf("expected default instance type, got %q", result.InstanceType)
	}
}

func TestPlan_UnknownInstance(t *testing.T) {
	req := models.DefaultPlanRequest()
	req.InstanceType = "z9.mega"

	_, err := New(nil).Plan(context.Background(), req)
	if !errors.Is(err, catalog.ErrUnknownInstance) {
		t.Errorf("expected ErrUnknownInstance, got %v", err)
	}
}

func TestCompare_Subset(t *testing.T) {
	req := models.DefaultPlanRequest()
	req.InstanceTypes = []string{"m5.4xlarge", "m5.large"}

	resp, err := New(nil).Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(resp.Plans))
	}
	if resp.Input.NodeVCPU != 16 {
		t.Errorf("expected input from m5.4xlarge, got %+v", resp.Input)
	}
}

func TestCatalog_IncludesCustom(t *testing.T) {
	specs, err := New(nil).Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs[len(specs)-1].ID != models.CustomInstanceType {
		t.Errorf("expected custom last, got %s", specs[len(specs)-1].ID)
	}
}
