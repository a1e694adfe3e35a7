// ABOUTME: Workload and node flags shared by the plan, compare and check commands
// ABOUTME: Coerces Kubernetes quantity strings into a plan request

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/backend/models"
)

// planFlags holds the raw flag values of one command
type planFlags struct {
	pods           int
	podCPU         string
	podMemory      string
	instance       string
	nodeVCPU       float64
	nodeMemory     string
	monthlyCost    float64
	cpuOverhead    float64
	memoryOverhead float64
}

// register adds the workload flags to cmd with the default calculator inputs
func (f *planFlags) register(cmd *cobra.Command) {
	d := models.DefaultPlanRequest()
	fs := cmd.Flags()
	fs.IntVar(&f.pods, "pods", d.PeakPods, "Peak number of pods")
	fs.StringVar(&f.podCPU, "pod-cpu", "500m", "CPU limit per pod as a Kubernetes quantity (500m, or cores such as 0.5 or 2)")
	fs.StringVar(&f.podMemory, "pod-memory", "1Gi", "Memory limit per pod (quantity such as 512Mi or 1Gi; bare numbers are GiB)")
	fs.StringVar(&f.instance, "instance", d.InstanceType, "Instance type from the catalog, or custom")
	fs.Float64Var(&f.nodeVCPU, "node-vcpu", 0, "vCPU per node (custom only)")
	fs.StringVar(&f.nodeMemory, "node-memory", "", "Memory per node (custom only; quantity or GiB)")
	fs.Float64Var(&f.monthlyCost, "monthly-cost", 0, "Monthly cost per node (custom only)")
	fs.Float64Var(&f.cpuOverhead, "cpu-overhead", d.CPUOverheadPct, "Percent of node CPU reserved for system use")
	fs.Float64Var(&f.memoryOverhead, "memory-overhead", d.MemoryOverheadPct, "Percent of node memory reserved for system use")
}

// request builds the plan request. Malformed quantities coerce to zero, which
// plans to zero nodes rather than failing.
func (f *planFlags) request() models.PlanRequest {
	return models.PlanRequest{
		InstanceType:        f.instance,
		PeakPods:            f.pods,
		PodCPUMillicores:    models.ParseCPUQuantity(f.podCPU),
		PodMemoryGiB:        models.ParseMemoryQuantity(f.podMemory),
		NodeVCPU:            f.nodeVCPU,
		NodeMemoryGiB:       models.ParseMemoryQuantity(f.nodeMemory),
		InstanceMonthlyCost: f.monthlyCost,
		CPUOverheadPct:      f.cpuOverhead,
		MemoryOverheadPct:   f.memoryOverhead,
	}
}
