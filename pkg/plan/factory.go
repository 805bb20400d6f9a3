package plan

// RecipeRate pairs a recipe with a rate. In a Factory the rate is the
// recipe's solved throughput; in a net-resources report it is the flow a
// recipe contributes to one resource.
type RecipeRate struct {
	Recipe RecipeID
	Rate   float64
}

// Factory is the solution of one solve: the throughput of every active
// recipe, in catalog order. Rates are always >= 0. A Factory is immutable
// output belonging to the solve that produced it.
type Factory struct {
	Recipes []RecipeRate
}

// ResourceFlow is the derived flow of one resource: its net rate and the
// per-recipe contributions that make it up.
type ResourceFlow struct {
	Net           float64
	Contributions []RecipeRate
}

// NetResources reports per-resource flow, indexed by ResourceID.
type NetResources struct {
	Resources []ResourceFlow
}

// NetResources derives the per-resource flow report from the factory. Every
// resource of the world gets an entry, in catalog order; resources no active
// recipe touches keep a zero net and an empty contribution list. Callers that
// want to hide them filter at presentation time.
func (f *Factory) NetResources(world *World) *NetResources {
	net := &NetResources{Resources: make([]ResourceFlow, len(world.Resources))}

	for _, active := range f.Recipes {
		for _, entry := range world.Recipes[active.Recipe].Rates {
			rate := active.Rate * entry.Rate

			flow := &net.Resources[entry.Resource]
			flow.Net += rate
			flow.Contributions = append(flow.Contributions, RecipeRate{
				Recipe: active.Recipe,
				Rate:   rate,
			})
		}
	}

	return net
}
