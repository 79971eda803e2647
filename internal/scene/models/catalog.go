package models

// ============================================================
// Catalogs (dropdown contents)
// ============================================================

func Layouts() []Option {
	return []Option{
		{Label: "Linear", Value: string(LayoutLinear)},
		{Label: "Circular", Value: string(LayoutCircular)},
		{Label: "Sine Wave", Value: string(LayoutWave)},
		{Label: "Spiral", Value: string(LayoutSpiral)},
		{Label: "Mountain", Value: string(LayoutMountain)},
		{Label: "Diamond", Value: string(LayoutDiamond)},
	}
}

func Schemes() []Option {
	return []Option{
		{Label: "Fire (red → yellow)", Value: string(SchemeFire)},
		{Label: "Ocean (blue → cyan)", Value: string(SchemeOcean)},
		{Label: "Nature (green → lime)", Value: string(SchemeNature)},
		{Label: "Sunset (orange → pink)", Value: string(SchemeSunset)},
		{Label: "Galaxy (purple → blue)", Value: string(SchemeGalaxy)},
		{Label: "Rainbow", Value: string(SchemeRainbow)},
		{Label: "Ice (white → blue)", Value: string(SchemeIce)},
		{Label: "Autumn (brown → orange)", Value: string(SchemeAutumn)},
	}
}

func Swatches() []Option {
	return []Option{
		{Label: "Red", Value: "#FF0000"},
		{Label: "Blue", Value: "#0066CC"},
		{Label: "Green", Value: "#00AA00"},
		{Label: "Purple", Value: "#8844CC"},
		{Label: "Orange", Value: "#FF8800"},
		{Label: "Cyan", Value: "#00AAFF"},
		{Label: "Yellow", Value: "#FFCC00"},
		{Label: "Pink", Value: "#FF69B4"},
		{Label: "Brown", Value: "#8B4513"},
		{Label: "Black", Value: "#333333"},
	}
}

func Markers() []Option {
	return []Option{
		{Label: "Circle", Value: string(MarkerCircle)},
		{Label: "Square", Value: string(MarkerSquare)},
		{Label: "Diamond", Value: string(MarkerDiamond)},
		{Label: "Triangle", Value: string(MarkerTriangleUp)},
		{Label: "Star", Value: string(MarkerStar)},
		{Label: "Cross", Value: string(MarkerCross)},
		{Label: "Target", Value: string(MarkerCircleOpen)},
		{Label: "Crystal", Value: string(MarkerDiamondOpen)},
	}
}

func Fonts() []Option {
	fonts := []string{"Arial", "Times New Roman", "Courier New", "Helvetica", "Verdana", "Calibri"}
	out := make([]Option, len(fonts))
	for i, f := range fonts {
		out[i] = Option{Label: f, Value: f}
	}
	return out
}

func RenderStyles() []Option {
	return []Option{
		{Label: "Point columns", Value: string(RenderPoints)},
		{Label: "Bar meshes", Value: string(RenderBars)},
	}
}
