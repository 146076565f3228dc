package recipe

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run extracts the single Recipe embedded as JSON-LD in the page and normalizes it.
func (p *Parser) Run(html string) (*Recipe, error) {
	blocks, err := ExtractJSONLDBlocks(html)
	if err != nil {
		return nil, err
	}

	obj, err := FindRecipeObject(blocks)
	if err != nil {
		return nil, err
	}

	return MapRecipe(obj)
}
