// ABOUTME: Static instance type catalog used to size worker nodes
// ABOUTME: Loads the embedded default or a swappable YAML/JSON file

package catalog

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/markalston/node-capacity-planner/backend/models"
)

//go:embed instances.yaml
var defaultInstances []byte

// ErrUnknownInstance is returned when an instance type is not in the catalog
var ErrUnknownInstance = errors.New("unknown instance type")

type catalogFile struct {
	Instances []models.InstanceSpec `json:"instances"`
}

// Catalog is an immutable, ordered set of instance specs
type Catalog struct {
	specs []models.InstanceSpec
	byID  map[string]models.InstanceSpec
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultInstances)
	if err != nil {
		panic(errors.Wrap(err, "embedded instance catalog is invalid"))
	}
	return c
}

// Load reads the catalog at path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read instance catalog %s", path)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load instance catalog %s", path)
	}
	return c, nil
}

// Parse builds a catalog from YAML or JSON.
// The custom entry is always present with zero capacity and cost.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal instance catalog")
	}

	c := &Catalog{
		specs: make([]models.InstanceSpec, 0, len(file.Instances)+1),
		byID:  make(map[string]models.InstanceSpec, len(file.Instances)+1),
	}

	for i, spec := range file.Instances {
		if spec.ID == "" {
			return nil, errors.Errorf("instance %d: id is required", i)
		}
		if _, dup := c.byID[spec.ID]; dup {
			return nil, errors.Errorf("instance %q: duplicate id", spec.ID)
		}
		if spec.IsCustom() {
			spec = models.InstanceSpec{ID: models.CustomInstanceType}
		} else if err := validate(spec); err != nil {
			return nil, err
		}
		c.specs = append(c.specs, spec)
		c.byID[spec.ID] = spec
	}

	if _, ok := c.byID[models.CustomInstanceType]; !ok {
		custom := models.InstanceSpec{ID: models.CustomInstanceType}
		c.specs = append(c.specs, custom)
		c.byID[custom.ID] = custom
	}

	return c, nil
}

func validate(spec models.InstanceSpec) error {
	if spec.VCPU <= 0 {
		return errors.Errorf("instance %q: vcpu must be positive, got %v", spec.ID, spec.VCPU)
	}
	if spec.MemoryGiB <= 0 {
		return errors.Errorf("instance %q: memory_gib must be positive, got %v", spec.ID, spec.MemoryGiB)
	}
	if spec.MonthlyCost < 0 {
		return errors.Errorf("instance %q: monthly_cost must not be negative, got %v", spec.ID, spec.MonthlyCost)
	}
	return nil
}

// Lookup returns the spec for id
func (c *Catalog) Lookup(id string) (models.InstanceSpec, bool) {
	spec, ok := c.byID[id]
	return spec, ok
}

// List returns all specs in catalog order
func (c *Catalog) List() []models.InstanceSpec {
	out := make([]models.InstanceSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Named returns the IDs of every spec except custom, in catalog order
func (c *Catalog) Named() []string {
	ids := make([]string, 0, len(c.specs))
	for _, spec := range c.specs {
		if !spec.IsCustom() {
			ids = append(ids, spec.ID)
		}
	}
	return ids
}

// Len returns the number of specs, custom included
func (c *Catalog) Len() int {
	return len(c.specs)
}

// Select applies an instance type to in.
// A named type overwrites node capacity and cost; custom zeroes them.
func (c *Catalog) Select(id string, in models.SizingInput) (models.SizingInput, error) {
	spec, ok := c.byID[id]
	if !ok {
		return in, errors.Wrapf(ErrUnknownInstance, "%q", id)
	}
	in.NodeVCPU = spec.VCPU
	in.NodeMemoryGiB = spec.MemoryGiB
	in.InstanceMonthlyCost = spec.MonthlyCost
	return in, nil
}
