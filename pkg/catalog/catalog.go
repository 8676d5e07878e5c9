// Package catalog 维护侧边栏可选的关键与新兴技术列表。
package catalog

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Technology 一个技术类别及其子领域
type Technology struct {
	Category  string   `yaml:"category" json:"category"`
	Subfields []string `yaml:"subfields" json:"subfields"`
}

// Catalog 技术目录
type Catalog struct {
	items []Technology
}

// New 使用给定列表创建目录，列表为空时使用内置列表
func New(items []Technology) *Catalog {
	if len(items) == 0 {
		items = Default()
	}
	return &Catalog{items: items}
}

// Technologies 返回全部技术类别
func (c *Catalog) Technologies() []Technology {
	return c.items
}

// Categories 返回全部类别名称
func (c *Catalog) Categories() []string {
	return lo.Map(c.items, func(t Technology, _ int) string { return t.Category })
}

// Lookup 校验类别与子领域的组合，子领域为空表示整个类别
func (c *Catalog) Lookup(category, subfield string) (Technology, error) {
	for _, t := range c.items {
		if !strings.EqualFold(t.Category, category) {
			continue
		}
		if subfield == "" || subfield == "-" {
			return t, nil
		}
		if lo.ContainsBy(t.Subfields, func(s string) bool { return strings.EqualFold(s, subfield) }) {
			return t, nil
		}
		return Technology{}, fmt.Errorf("unknown subfield %q for category %q", subfield, category)
	}
	return Technology{}, fmt.Errorf("unknown category %q", category)
}

// Default 内置的关键与新兴技术列表
func Default() []Technology {
	return []Technology{
		{Category: "Advanced Computing", Subfields: []string{
			"Supercomputing", "Edge computing", "Cloud computing", "Data storage",
			"Computing architectures", "Data processing and analysis techniques",
		}},
		{Category: "Advanced Engineering Materials", Subfields: []string{
			"Materials by design", "Material genomics", "Materials with new properties",
		}},
		{Category: "Advanced Gas Turbine Engine Technologies", Subfields: []string{
			"Full-authority digital engine control", "Hot-section manufacturing",
		}},
		{Category: "Advanced Manufacturing", Subfields: []string{
			"Additive manufacturing", "Clean manufacturing", "Smart manufacturing", "Nanomanufacturing",
		}},
		{Category: "Advanced and Networked Sensing", Subfields: []string{
			"Sensor processing and data fusion", "Adaptive optics", "Remote sensing", "Signature management",
		}},
		{Category: "Advanced Nuclear Energy Technologies", Subfields: []string{
			"Nuclear energy systems", "Fusion energy", "Space nuclear power and propulsion",
		}},
		{Category: "Artificial Intelligence", Subfields: []string{
			"Machine learning", "Deep learning", "Reinforcement learning",
			"Sensory perception and recognition", "Planning, reasoning, and decision making", "Safe and secure AI",
		}},
		{Category: "Autonomous Systems and Robotics", Subfields: []string{
			"Unmanned surface vehicles", "Unmanned aerial vehicles", "Maritime robotics", "Space robotics",
		}},
		{Category: "Biotechnologies", Subfields: []string{
			"Nucleic acid and protein synthesis", "Genome and protein engineering", "Multi-omics",
			"Biomanufacturing",
		}},
		{Category: "Communication and Networking Technologies", Subfields: []string{
			"5G", "6G", "Spectrum management", "Optical links and fiber", "Undersea cables",
			"Satellite communications", "Mesh networks",
		}},
		{Category: "Directed Energy", Subfields: []string{
			"Lasers", "High-power microwaves", "Particle beams",
		}},
		{Category: "Financial Technologies", Subfields: []string{
			"Distributed ledger technologies", "Digital assets", "Digital payment technologies", "Digital identity",
		}},
		{Category: "Human-Machine Interfaces", Subfields: []string{
			"Augmented reality", "Virtual reality", "Brain-computer interfaces", "Human-machine teaming",
		}},
		{Category: "Hypersonics", Subfields: []string{
			"Hypersonic propulsion", "Aerodynamics and control", "Hypersonic materials", "Hypersonic defense",
		}},
		{Category: "Quantum Information Technologies", Subfields: []string{
			"Quantum computing", "Post-quantum cryptography", "Quantum sensing", "Quantum networking",
		}},
		{Category: "Renewable Energy Generation and Storage", Subfields: []string{
			"Renewable generation", "Sustainable fuels", "Energy storage", "Batteries", "Grid integration",
		}},
		{Category: "Semiconductors and Microelectronics", Subfields: []string{
			"Electronic design automation", "Semiconductor manufacturing equipment", "Advanced packaging",
			"Wide-bandgap semiconductors",
		}},
		{Category: "Space Technologies and Systems", Subfields: []string{
			"On-orbit servicing", "Satellite buses", "Low-cost launch vehicles", "Space propulsion",
			"Resilient positioning, navigation, and timing",
		}},
	}
}
