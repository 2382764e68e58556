package renderer

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// shaderInterface is what one entry point exposes to the pipeline. Inputs and outputs map names to locations,
// bindings maps the resources of bind group 0 to their binding.
type shaderInterface struct {
	inputs   map[string]uint32
	outputs  map[string]uint32
	bindings map[string]uint32
}

// reflectWGSL parses src and reads the interface of the entry point named entry. It returns nil without error
// if the source has no such entry point for stage.
func reflectWGSL(label string, src []byte, stage ir.ShaderStage, entry string) (*shaderInterface, error) {
	ast, err := naga.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s shader: %w", label, err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to lower %s shader: %w", label, err)
	}

	var ep *ir.EntryPoint
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Name == entry && module.EntryPoints[i].Stage == stage {
			ep = &module.EntryPoints[i]
			break
		}
	}
	if ep == nil {
		return nil, nil
	}

	si := &shaderInterface{
		inputs:   map[string]uint32{},
		outputs:  map[string]uint32{},
		bindings: map[string]uint32{},
	}
	for _, arg := range ep.Function.Arguments {
		collectLocations(module, si.inputs, arg.Name, arg.Binding, arg.Type)
	}
	if res := ep.Function.Result; res != nil {
		collectLocations(module, si.outputs, "", res.Binding, res.Type)
	}
	for _, g := range module.GlobalVariables {
		if g.Binding != nil && g.Binding.Group == 0 {
			si.bindings[g.Name] = g.Binding.Binding
		}
	}
	return si, nil
}

// collectLocations adds name if it is bound to a location, or the located members of a struct typed value.
func collectLocations(module *ir.Module, into map[string]uint32, name string, binding *ir.Binding, th ir.TypeHandle) {
	if binding != nil {
		if loc, ok := location(*binding); ok && name != "" {
			into[name] = loc
		}
		return
	}
	if int(th) >= len(module.Types) {
		return
	}
	st, ok := module.Types[th].Inner.(ir.StructType)
	if !ok {
		return
	}
	for _, m := range st.Members {
		if m.Binding == nil {
			continue
		}
		if loc, ok := location(*m.Binding); ok {
			into[m.Name] = loc
		}
	}
}

func location(b ir.Binding) (uint32, bool) {
	switch b := b.(type) {
	case ir.LocationBinding:
		return b.Location, true
	case *ir.LocationBinding:
		return b.Location, true
	default:
		return 0, false
	}
}
