package catalog

import (
	"github.com/cockroachdb/errors"
	"github.com/warp/schedule-engine/generic"
)

// Builder assembles a Catalog while preserving insertion order. Errors are
// collected and reported once by Build so preset tables read top to bottom.
type Builder struct {
	programs []Program
	err      error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Program starts (or reopens) a program. Reopening keeps its original
// position and display mode.
func (b *Builder) Program(name string, display DisplayMode) *ProgramBuilder {
	for i := range b.programs {
		if b.programs[i].Name == name {
			return &ProgramBuilder{b: b, idx: i}
		}
	}
	if display == "" {
		display = DisplayPriceOnly
	}
	b.programs = append(b.programs, Program{Name: name, Display: display})
	return &ProgramBuilder{b: b, idx: len(b.programs) - 1}
}

// Build validates and freezes the catalog. Every program needs at least one
// frequency and every frequency at least one plan.
func (b *Builder) Build() (*Catalog, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.programs) == 0 {
		return nil, generic.InvalidCatalogf("catalog has no programs")
	}
	for _, p := range b.programs {
		if len(p.frequencies) == 0 {
			return nil, generic.InvalidCatalogf("program %q has no frequencies", p.Name)
		}
		for _, f := range p.frequencies {
			if len(f.plans) == 0 {
				return nil, generic.InvalidCatalogf("frequency %s / %s has no payment plans", p.Name, f.Label)
			}
		}
	}

	programs := make([]Program, len(b.programs))
	for i, p := range b.programs {
		freqs := make([]Frequency, len(p.frequencies))
		for j, f := range p.frequencies {
			plans := make([]PaymentPlan, len(f.plans))
			for k, plan := range f.plans {
				plans[k] = PaymentPlan{Label: plan.Label, Record: plan.Record.clone()}
			}
			freqs[j] = Frequency{Label: f.Label, plans: plans}
		}
		programs[i] = Program{Name: p.Name, Display: p.Display, frequencies: freqs}
	}
	return &Catalog{programs: programs}, nil
}

// MustBuild panics on an invalid catalog. Use for presets only.
func (b *Builder) MustBuild() *Catalog {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ProgramBuilder adds frequencies to one program.
type ProgramBuilder struct {
	b   *Builder
	idx int
}

// Frequency starts (or reopens) a frequency group in the program.
func (pb *ProgramBuilder) Frequency(label string) *FrequencyBuilder {
	p := &pb.b.programs[pb.idx]
	for i := range p.frequencies {
		if p.frequencies[i].Label == label {
			return &FrequencyBuilder{b: pb.b, program: pb.idx, idx: i}
		}
	}
	p.frequencies = append(p.frequencies, Frequency{Label: label})
	return &FrequencyBuilder{b: pb.b, program: pb.idx, idx: len(p.frequencies) - 1}
}

// FrequencyBuilder adds payment plans to one frequency group.
type FrequencyBuilder struct {
	b       *Builder
	program int
	idx     int
}

// Plan appends a payment plan. Duplicate labels and invalid records make
// Build fail.
func (fb *FrequencyBuilder) Plan(label string, record PlanRecord) *FrequencyBuilder {
	p := &fb.b.programs[fb.program]
	f := &p.frequencies[fb.idx]
	if _, exists := f.plan(label); exists {
		fb.b.fail(generic.InvalidCatalogf("duplicate payment plan %q under %s / %s", label, p.Name, f.Label))
		return fb
	}
	if err := record.validate(); err != nil {
		fb.b.fail(errors.Wrapf(err, "%s / %s / %s", p.Name, f.Label, label))
		return fb
	}
	f.plans = append(f.plans, PaymentPlan{Label: label, Record: record.clone()})
	return fb
}
