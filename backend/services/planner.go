// ABOUTME: Capacity planner for Kubernetes worker nodes
// ABOUTME: Computes required node count, first-fit pod placement, and cost

package services

import (
	"math"

	"github.com/markalston/node-capacity-planner/backend/models"
)

// Planner computes capacity plans. It holds no state and is safe for concurrent use.
type Planner struct{}

// NewPlanner creates a new planner
func NewPlanner() *Planner {
	return &Planner{}
}

// RequiredNodes returns how many nodes hold in.PeakPods pods by aggregate CPU and memory.
// Infeasible inputs, and inputs whose node count does not fit in an int, yield 0.
func (p *Planner) RequiredNodes(in models.SizingInput) int {
	byCPU, byMemory, ok := nodesByResource(in)
	if !ok {
		return 0
	}
	return max(byCPU, byMemory)
}

// nodesByResource returns the node count needed for each resource on its own.
// ok is false for infeasible inputs and for counts too large to represent.
func nodesByResource(in models.SizingInput) (byCPU, byMemory int, ok bool) {
	if !in.Feasible() {
		return 0, 0, false
	}
	if in.PeakPods <= 0 {
		return 0, 0, true
	}

	pods := float64(in.PeakPods)
	byCPU, cpuOK := ceilCount(pods * in.PodCPUVcores() / in.UsableNodeCPU())
	byMemory, memOK := ceilCount(pods * in.PodMemoryGiB / in.UsableNodeMemoryGiB())
	if !cpuOK || !memOK {
		return 0, 0, false
	}
	return byCPU, byMemory, true
}

// ceilCount rounds q up to an int. ok is false when q is NaN or not below math.MaxInt.
func ceilCount(q float64) (int, bool) {
	c := math.Ceil(q)
	if !(c < math.MaxInt) {
		return 0, false
	}
	return int(c), true
}

// PlacePods assigns pods to nodes first-fit, starting from required empty nodes.
// A pod that fits nowhere opens a new node, so the result may be longer than required.
// Infeasible inputs yield an empty slice.
func (p *Planner) PlacePods(in models.SizingInput, required int) []models.Node {
	if !in.Feasible() {
		return []models.Node{}
	}

	podCPU := in.PodCPUVcores()
	podMemory := in.PodMemoryGiB
	usableCPU := in.UsableNodeCPU()
	usableMemory := in.UsableNodeMemoryGiB()

	// Every pod has the same footprint and usage only grows, so a node that
	// rejects one pod rejects all later ones. first is the lowest node that
	// may still fit, which keeps the scan linear without changing the result.
	nodes := make([]models.Node, max(required, 0))
	first := 0
	for range max(in.PeakPods, 0) {
		for first < len(nodes) && !nodes[first].Fits(podCPU, podMemory, usableCPU, usableMemory) {
			first++
		}
		if first == len(nodes) {
			var n models.Node
			n.Assign(podCPU, podMemory)
			nodes = append(nodes, n)
			continue
		}
		nodes[first].Assign(podCPU, podMemory)
	}

	return nodes
}

// EstimateCost prices nodeCount nodes at monthly each. Values are not rounded.
func (p *Planner) EstimateCost(monthly float64, nodeCount int) models.CostEstimate {
	total := float64(nodeCount) * monthly
	return models.CostEstimate{
		MonthlyCost: total,
		HourlyCost:  total / models.HoursPerMonth,
	}
}

// Place runs the three core steps and returns the bare placement result
func (p *Planner) Place(in models.SizingInput) models.PlacementResult {
	byCPU, byMemory, ok := nodesByResource(in)
	if !ok {
		return models.PlacementResult{Nodes: []models.Node{}}
	}

	required := max(byCPU, byMemory)
	cost := p.EstimateCost(in.InstanceMonthlyCost, required)
	return models.PlacementResult{
		RequiredNodeCount: required,
		Nodes:             p.PlacePods(in, required),
		MonthlyCost:       cost.MonthlyCost,
		HourlyCost:        cost.HourlyCost,
	}
}

// Plan recomputes everything from in, including the bottleneck and utilization figures.
// Cost follows the required node count, not the placed one.
func (p *Planner) Plan(in models.SizingInput) models.PlanResult {
	placement := p.Place(in)

	result := models.PlanResult{
		PlacementResult: placement,
		PlacedNodeCount: len(placement.Nodes),
	}

	byCPU, byMemory, ok := nodesByResource(in)
	if !ok {
		result.Bottleneck = models.BottleneckInvalid
		return result
	}

	result.UsableNodeCPU = in.UsableNodeCPU()
	result.UsableNodeMemoryGiB = in.UsableNodeMemoryGiB()
	result.NodesByCPU, result.NodesByMemory = byCPU, byMemory

	switch {
	case result.NodesByCPU > result.NodesByMemory:
		result.Bottleneck = models.BottleneckCPU
	case result.NodesByMemory > result.NodesByCPU:
		result.Bottleneck = models.BottleneckMemory
	default:
		result.Bottleneck = models.BottleneckBalanced
	}

	if required := placement.RequiredNodeCount; required > 0 {
		pods := float64(in.PeakPods)
		result.CPUUtilPct = pods * in.PodCPUVcores() / (float64(required) * result.UsableNodeCPU) * 100
		result.MemoryUtilPct = pods * in.PodMemoryGiB / (float64(required) * result.UsableNodeMemoryGiB) * 100
	}

	return result
}
