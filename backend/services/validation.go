// ABOUTME: Input validation and request-to-input conversion for plan requests
// ABOUTME: Rejects malformed identifiers and out-of-range overheads before planning

package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/models"
)

// instanceTypePattern matches catalog IDs such as "m5.4xlarge" or "n2-standard-4"
var instanceTypePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// Bounds on a single plan request
const (
	MaxPeakPods         = 10_000
	MaxPodCPUMillicores = 1_000_000
	MaxPodMemoryGiB     = 16_384
	MaxNodes            = 10_000
)

// ErrTooManyNodes is returned when a plan would need more than MaxNodes nodes
var ErrTooManyNodes = errors.New("plan needs too many nodes")

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// ValidateCalculatorID validates that a calculator ID is a canonical lowercase UUID
func ValidateCalculatorID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("invalid calculator ID: %s", sanitizeForLog(id))
	}
	return nil
}

// ValidateInstanceType validates the shape of an instance type ID
func ValidateInstanceType(id string) error {
	if id == "" {
		return fmt.Errorf("instance type cannot be empty")
	}
	if !instanceTypePattern.MatchString(id) {
		return fmt.Errorf("invalid instance type format: %s", sanitizeForLog(id))
	}
	return nil
}

// ValidateOverhead checks that a reservation percentage is within [0, 100]
func ValidateOverhead(name string, pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %v", name, pct)
	}
	return nil
}

// ValidatePlanRequest checks the fields the planner cannot degrade gracefully
func ValidatePlanRequest(req models.PlanRequest) error {
	if err := ValidateInstanceType(req.InstanceType); err != nil {
		return err
	}
	if err := ValidateOverhead("cpu_overhead_pct", req.CPUOverheadPct); err != nil {
		return err
	}
	if err := ValidateOverhead("memory_overhead_pct", req.MemoryOverheadPct); err != nil {
		return err
	}
	if req.PeakPods > MaxPeakPods {
		return fmt.Errorf("peak_pods must be at most %d, got %d", MaxPeakPods, req.PeakPods)
	}
	if req.PodCPUMillicores > MaxPodCPUMillicores {
		return fmt.Errorf("pod_cpu_millicores must be at most %d, got %v", MaxPodCPUMillicores, req.PodCPUMillicores)
	}
	if req.PodMemoryGiB > MaxPodMemoryGiB {
		return fmt.Errorf("pod_memory_gib must be at most %d, got %v", MaxPodMemoryGiB, req.PodMemoryGiB)
	}
	for _, id := range req.InstanceTypes {
		if err := ValidateInstanceType(id); err != nil {
			return err
		}
	}
	return nil
}

// BuildInput turns a request into a sizing input using the catalog.
// A named instance type supplies node capacity and cost. For custom, the request's own
// node_vcpu, node_memory_gib and instance_monthly_cost apply after the catalog zeroes them.
func BuildInput(cat *catalog.Catalog, req models.PlanRequest) (models.SizingInput, error) {
	if req.InstanceType == "" {
		req.InstanceType = models.DefaultPlanRequest().InstanceType
	}
	if err := ValidatePlanRequest(req); err != nil {
		return models.SizingInput{}, err
	}

	in := models.SizingInput{
		PeakPods:          req.PeakPods,
		PodCPUMillicores:  req.PodCPUMillicores,
		PodMemoryGiB:      req.PodMemoryGiB,
		CPUOverheadPct:    req.CPUOverheadPct,
		MemoryOverheadPct: req.MemoryOverheadPct,
	}

	in, err := cat.Select(req.InstanceType, in)
	if err != nil {
		return models.SizingInput{}, err
	}

	if req.InstanceType == models.CustomInstanceType {
		in.NodeVCPU = req.NodeVCPU
		in.NodeMemoryGiB = req.NodeMemoryGiB
		in.InstanceMonthlyCost = req.InstanceMonthlyCost
	}
	if err := CheckNodeBudget(in); err != nil {
		return models.SizingInput{}, err
	}
	return in, nil
}

// CheckNodeBudget rejects inputs whose required node count exceeds MaxNodes,
// including counts too large to represent. Infeasible inputs pass: they plan to zero nodes.
func CheckNodeBudget(in models.SizingInput) error {
	if !in.Feasible() {
		return nil
	}
	byCPU, byMemory, ok := nodesByResource(in)
	if !ok {
		return fmt.Errorf("%w: more than %d", ErrTooManyNodes, MaxNodes)
	}
	if required := max(byCPU, byMemory); required > MaxNodes {
		return fmt.Errorf("%w: %d required, at most %d allowed", ErrTooManyNodes, required, MaxNodes)
	}
	return nil
}
