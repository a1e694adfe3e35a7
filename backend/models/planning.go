// ABOUTME: Data models for worker node sizing and pod placement
// ABOUTME: Inputs, per-node accumulators, and plan results returned by the API

package models

// HoursPerMonth is the fixed average used to derive hourly cost from monthly cost.
const HoursPerMonth = 730.0

// Bottleneck values reported on a plan
const (
	BottleneckCPU      = "cpu"
	BottleneckMemory   = "memory"
	BottleneckBalanced = "balanced"
	BottleneckInvalid  = "invalid"
)

// SizingInput is the validated numeric input for a single sizing request
type SizingInput struct {
	PeakPods            int     `json:"peak_pods"`
	PodCPUMillicores    float64 `json:"pod_cpu_millicores"`
	PodMemoryGiB        float64 `json:"pod_memory_gib"`
	NodeVCPU            float64 `json:"node_vcpu"`
	NodeMemoryGiB       float64 `json:"node_memory_gib"`
	CPUOverheadPct      float64 `json:"cpu_overhead_pct"`
	MemoryOverheadPct   float64 `json:"memory_overhead_pct"`
	InstanceMonthlyCost float64 `json:"instance_monthly_cost"`
}

// PodCPUVcores converts the per-pod CPU limit from millicores to vcores
func (in SizingInput) PodCPUVcores() float64 {
	return in.PodCPUMillicores / 1000
}

// UsableNodeCPU is node vCPU after the CPU overhead reservation
func (in SizingInput) UsableNodeCPU() float64 {
	return in.NodeVCPU * (1 - in.CPUOverheadPct/100)
}

// UsableNodeMemoryGiB is node memory after the memory overhead reservation
func (in SizingInput) UsableNodeMemoryGiB() float64 {
	return in.NodeMemoryGiB * (1 - in.MemoryOverheadPct/100)
}

// Feasible reports whether both the node and the pod have a positive footprint.
// Infeasible inputs plan to zero nodes rather than failing.
func (in SizingInput) Feasible() bool {
	return in.UsableNodeCPU() > 0 &&
		in.UsableNodeMemoryGiB() > 0 &&
		in.PodCPUVcores() > 0 &&
		in.PodMemoryGiB > 0
}

// Node accumulates the pods assigned to one worker node during placement
type Node struct {
	PodCount      int     `json:"pod_count"`
	UsedCPUVcores float64 `json:"used_cpu_vcores"`
	UsedMemoryGiB float64 `json:"used_memory_gib"`
}

// Fits reports whether one more pod of the given size stays within usable capacity
func (n *Node) Fits(podCPU, podMemory, usableCPU, usableMemory float64) bool {
	return n.UsedCPUVcores+podCPU <= usableCPU && n.UsedMemoryGiB+podMemory <= usableMemory
}

// Assign adds one pod to the node
func (n *Node) Assign(podCPU, podMemory float64) {
	n.PodCount++
	n.UsedCPUVcores += podCPU
	n.UsedMemoryGiB += podMemory
}

// CostEstimate is the cost of running a node count for a month
type CostEstimate struct {
	MonthlyCost float64 `json:"monthly_cost"`
	HourlyCost  float64 `json:"hourly_cost"`
}

// PlacementResult is the planner output: node count, placement, and cost
type PlacementResult struct {
	RequiredNodeCount int     `json:"required_node_count"`
	Nodes             []Node  `json:"nodes"`
	MonthlyCost       float64 `json:"monthly_cost"`
	HourlyCost        float64 `json:"hourly_cost"`
}

// PlanResult extends PlacementResult with the intermediate sizing figures
type PlanResult struct {
	PlacementResult
	InstanceType        string  `json:"instance_type,omitempty"`
	UsableNodeCPU       float64 `json:"usable_node_cpu"`
	UsableNodeMemoryGiB float64 `json:"usable_node_memory_gib"`
	NodesByCPU          int     `json:"nodes_by_cpu"`
	NodesByMemory       int     `json:"nodes_by_memory"`
	PlacedNodeCount     int     `json:"placed_node_count"`
	Bottleneck          string  `json:"bottleneck"`
	CPUUtilPct          float64 `json:"cpu_util_pct"`
	MemoryUtilPct       float64 `json:"memory_util_pct"`
}

// PlanRequest is the API body for a sizing request.
// Node capacity and monthly cost are read only for the "custom" instance type.
type PlanRequest struct {
	InstanceType        string   `json:"instance_type"`
	PeakPods            int      `json:"peak_pods"`
	PodCPUMillicores    float64  `json:"pod_cpu_millicores"`
	PodMemoryGiB        float64  `json:"pod_memory_gib"`
	NodeVCPU            float64  `json:"node_vcpu,omitempty"`
	NodeMemoryGiB       float64  `json:"node_memory_gib,omitempty"`
	InstanceMonthlyCost float64  `json:"instance_monthly_cost,omitempty"`
	CPUOverheadPct      float64  `json:"cpu_overhead_pct"`
	MemoryOverheadPct   float64  `json:"memory_overhead_pct"`
	InstanceTypes       []string `json:"instance_types,omitempty"` // compare only; empty = whole catalog
}

// DefaultPlanRequest returns the inputs a fresh calculator starts with
func DefaultPlanRequest() PlanRequest {
	return PlanRequest{
		InstanceType:      "m5.4xlarge",
		PeakPods:          100,
		PodCPUMillicores:  500,
		PodMemoryGiB:      1,
		CPUOverheadPct:    10,
		MemoryOverheadPct: 10,
	}
}

// ComparisonResponse ranks the same workload across instance types
type ComparisonResponse struct {
	Input SizingInput  `json:"input"`
	Plans []PlanResult `json:"plans"`
}
