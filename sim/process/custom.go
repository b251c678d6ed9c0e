package process

import (
	"bytes"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/bpsim/bpsim/sim"
)

// CustomSpec is the YAML shape of a user-defined process. Pools default to
// all declared resources; successor lists are deterministic chains; the
// processing map goes task type -> resource -> distribution, with "*"
// accepted as a catch-all resource key.
type CustomSpec struct {
	Resources    []string                       `yaml:"resources"`
	TaskTypes    []string                       `yaml:"task_types"`
	InitialType  string                         `yaml:"initial_type"`
	Pools        map[string][]string            `yaml:"pools"`
	Successors   map[string][]string            `yaml:"successors"`
	Labels       map[string]map[string]string   `yaml:"labels"`
	Interarrival DistSpec                       `yaml:"interarrival"`
	Processing   map[string]map[string]DistSpec `yaml:"processing"`
}

// ParseCustomSpec decodes a standalone custom process document. Unknown
// fields are rejected.
func ParseCustomSpec(data []byte) (CustomSpec, error) {
	var spec CustomSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return CustomSpec{}, fmt.Errorf("parsing custom process: %w", err)
	}
	return spec, nil
}

// Validate checks the declarations for internal consistency and buildable
// distributions. All problems surface here, before a simulator exists.
func (spec CustomSpec) Validate() error {
	confErr := func(format string, args ...interface{}) error {
		return &sim.ConfigurationError{Component: "process.custom", Reason: fmt.Sprintf(format, args...)}
	}

	if len(spec.Resources) == 0 {
		return confErr("no resources declared")
	}
	resources := make(map[string]bool, len(spec.Resources))
	for _, r := range spec.Resources {
		if r == "" {
			return confErr("empty resource label")
		}
		if resources[r] {
			return confErr("duplicate resource %q", r)
		}
		resources[r] = true
	}

	if len(spec.TaskTypes) == 0 {
		return confErr("no task types declared")
	}
	types := make(map[string]bool, len(spec.TaskTypes))
	for _, tt := range spec.TaskTypes {
		if tt == "" {
			return confErr("empty task type label")
		}
		if types[tt] {
			return confErr("duplicate task type %q", tt)
		}
		types[tt] = true
	}

	if !types[spec.InitialType] {
		return confErr("initial type %q is not a declared task type", spec.InitialType)
	}

	for tt, pool := range spec.Pools {
		if !types[tt] {
			return confErr("pool declared for unknown task type %q", tt)
		}
		if len(pool) == 0 {
			return confErr("pool of %q is empty", tt)
		}
		for _, r := range pool {
			if !resources[r] {
				return confErr("pool of %q contains unknown resource %q", tt, r)
			}
		}
	}

	for tt, succ := range spec.Successors {
		if !types[tt] {
			return confErr("successors declared for unknown task type %q", tt)
		}
		for _, next := range succ {
			if !types[next] {
				return confErr("successor %q of %q is not a declared task type", next, tt)
			}
		}
	}

	for tt := range spec.Labels {
		if !types[tt] {
			return confErr("labels declared for unknown task type %q", tt)
		}
	}

	if _, err := NewDurationSampler(spec.Interarrival); err != nil {
		return confErr("interarrival: %v", err)
	}

	for tt, byResource := range spec.Processing {
		if !types[tt] {
			return confErr("processing declared for unknown task type %q", tt)
		}
		for r, dist := range byResource {
			if r != "*" && !resources[r] {
				return confErr("processing of %q declared for unknown resource %q", tt, r)
			}
			if _, err := NewDurationSampler(dist); err != nil {
				return confErr("processing of %q on %q: %v", tt, r, err)
			}
		}
	}

	// Every resource a task type may be assigned to needs a distribution.
	for _, tt := range spec.TaskTypes {
		pool := spec.Pools[tt]
		if pool == nil {
			pool = spec.Resources
		}
		for _, r := range pool {
			if _, ok := spec.Processing[tt][r]; ok {
				continue
			}
			if _, ok := spec.Processing[tt]["*"]; ok {
				continue
			}
			return confErr("no processing distribution for %q on %q", tt, r)
		}
	}

	return nil
}

// Custom is the process adapter built from a CustomSpec.
type Custom struct {
	resources  []sim.Resource
	taskTypes  []sim.TaskType
	initial    sim.TaskType
	pools      map[sim.TaskType][]sim.Resource
	successors map[sim.TaskType][]sim.TaskType
	labels     map[sim.TaskType]map[string]string

	interarrival DurationSampler
	processing   map[sim.TaskType]map[sim.Resource]DurationSampler
}

// NewCustom validates the spec and builds the adapter.
func NewCustom(spec CustomSpec) (*Custom, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	c := &Custom{
		initial:    sim.TaskType(spec.InitialType),
		pools:      make(map[sim.TaskType][]sim.Resource),
		successors: make(map[sim.TaskType][]sim.TaskType),
		labels:     make(map[sim.TaskType]map[string]string),
		processing: make(map[sim.TaskType]map[sim.Resource]DurationSampler),
	}
	for _, r := range spec.Resources {
		c.resources = append(c.resources, sim.Resource(r))
	}
	for _, tt := range spec.TaskTypes {
		c.taskTypes = append(c.taskTypes, sim.TaskType(tt))
	}

	for tt, pool := range spec.Pools {
		members := make([]sim.Resource, len(pool))
		for i, r := range pool {
			members[i] = sim.Resource(r)
		}
		c.pools[sim.TaskType(tt)] = members
	}
	for tt, succ := range spec.Successors {
		next := make([]sim.TaskType, len(succ))
		for i, s := range succ {
			next[i] = sim.TaskType(s)
		}
		c.successors[sim.TaskType(tt)] = next
	}
	for tt, labels := range spec.Labels {
		c.labels[sim.TaskType(tt)] = labels
	}

	// Validate already proved every sampler buildable.
	c.interarrival, _ = NewDurationSampler(spec.Interarrival)
	for tt, byResource := range spec.Processing {
		samplers := make(map[sim.Resource]DurationSampler, len(byResource))
		for r, dist := range byResource {
			samplers[sim.Resource(r)], _ = NewDurationSampler(dist)
		}
		c.processing[sim.TaskType(tt)] = samplers
	}

	return c, nil
}

func (c *Custom) Resources() []sim.Resource {
	return append([]sim.Resource(nil), c.resources...)
}

func (c *Custom) TaskTypes() []sim.TaskType {
	return append([]sim.TaskType(nil), c.taskTypes...)
}

func (c *Custom) ResourcePool(tt sim.TaskType) []sim.Resource {
	if pool, ok := c.pools[tt]; ok {
		return append([]sim.Resource(nil), pool...)
	}
	return c.Resources()
}

func (c *Custom) SampleInterarrival(rng *rand.Rand) float64 {
	return c.interarrival.Sample(rng)
}

func (c *Custom) SampleInitialTaskType(_ *rand.Rand) sim.TaskType {
	return c.initial
}

func (c *Custom) SampleNextTaskTypes(_ *rand.Rand, t *sim.Task) []sim.TaskType {
	succ := c.successors[t.Type()]
	if len(succ) == 0 {
		return nil
	}
	return append([]sim.TaskType(nil), succ...)
}

// SampleProcessingTime draws from the distribution declared for the task
// type and resource, falling back to the "*" entry. Resources the task type
// cannot be assigned to draw zero without consuming randomness.
func (c *Custom) SampleProcessingTime(rng *rand.Rand, r sim.Resource, t *sim.Task) float64 {
	byResource := c.processing[t.Type()]
	if sampler, ok := byResource[r]; ok {
		return sampler.Sample(rng)
	}
	if sampler, ok := byResource["*"]; ok {
		return sampler.Sample(rng)
	}
	return 0
}

func (c *Custom) SampleData(_ *rand.Rand, tt sim.TaskType) sim.TaskData {
	labels := c.labels[tt]
	if len(labels) == 0 {
		return sim.TaskData{}
	}
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	return sim.TaskData{Labels: copied}
}
