package models

// ============================================================
// Dataset
// ============================================================

type Entry struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Dataset хранит пары (категория, значение) в порядке загрузки.
type Dataset []Entry

// MinUploadRows: минимальное число валидных строк в загруженном файле.
const MinUploadRows = 2

func (d Dataset) Labels() []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.Label
	}
	return out
}

func (d Dataset) Values() []float64 {
	out := make([]float64, len(d))
	for i, e := range d {
		out[i] = e.Value
	}
	return out
}

// DefaultDataset возвращает набор данных, показываемый до первой загрузки.
func DefaultDataset() Dataset {
	return Dataset{
		{Label: "Monday", Value: 10},
		{Label: "Tuesday", Value: 15},
		{Label: "Wednesday", Value: 8},
		{Label: "Thursday", Value: 20},
		{Label: "Friday", Value: 25},
	}
}

// ============================================================
// Enumerations
// ============================================================

type Layout string

const (
	LayoutLinear   Layout = "linear"
	LayoutCircular Layout = "circular"
	LayoutWave     Layout = "wave"
	LayoutSpiral   Layout = "spiral"
	LayoutMountain Layout = "mountain"
	LayoutDiamond  Layout = "diamond"
)

type Scheme string

const (
	SchemeFire    Scheme = "fire"
	SchemeOcean   Scheme = "ocean"
	SchemeNature  Scheme = "nature"
	SchemeSunset  Scheme = "sunset"
	SchemeGalaxy  Scheme = "galaxy"
	SchemeRainbow Scheme = "rainbow"
	SchemeIce     Scheme = "ice"
	SchemeAutumn  Scheme = "autumn"
)

type ColorMode string

const (
	ColorModeScheme ColorMode = "scheme"
	ColorModeSingle ColorMode = "single"
)

type Marker string

const (
	MarkerCircle      Marker = "circle"
	MarkerSquare      Marker = "square"
	MarkerDiamond     Marker = "diamond"
	MarkerTriangleUp  Marker = "triangle-up"
	MarkerStar        Marker = "star"
	MarkerCross       Marker = "cross"
	MarkerCircleOpen  Marker = "circle-open"
	MarkerDiamondOpen Marker = "diamond-open"
)

// Wobbles сообщает, смещаются ли точки колонны по синусоиде для этого маркера.
func (m Marker) Wobbles() bool {
	return m == MarkerDiamond || m == MarkerStar
}

type RenderStyle string

const (
	RenderPoints RenderStyle = "points"
	RenderBars   RenderStyle = "bars"
)

// Option: элемент выпадающего списка (label для UI, value для API).
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ============================================================
// Geometry primitives
// ============================================================

type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ColumnPoint: одна точка колонны в режиме облака точек.
type ColumnPoint struct {
	Position Point3D `json:"position"`
	Color    string  `json:"color"`
	Size     float64 `json:"size"`
	Symbol   Marker  `json:"symbol"`
	Label    string  `json:"label"`
}

// Face: прямоугольная грань бокса (4 угла по порядку обхода).
type Face struct {
	Name    string     `json:"name"`
	Corners [4]Point3D `json:"corners"`
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
	Label   string     `json:"label"`
}

// ============================================================
// Scene
// ============================================================

type Camera struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
	Color  string `json:"color"`
}

type AxisTitles struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

type Appearance struct {
	Background      string `json:"background"`
	PaperBackground string `json:"paperBackground"`
	AxisBackground  string `json:"axisBackground"`
	GridColor       string `json:"gridColor"`
	LineColor       string `json:"lineColor"`
	ShowGrid        bool   `json:"showGrid"`
	ShowAxes        bool   `json:"showAxes"`
	BorderWidth     int    `json:"borderWidth"`
	ShowValues      bool   `json:"showValues"`
}

type Scene struct {
	Title         string        `json:"title"`
	TitleFontSize int           `json:"titleFontSize"`
	Axes          AxisTitles    `json:"axes"`
	Camera        Camera        `json:"camera"`
	Font          Font          `json:"font"`
	Appearance    Appearance    `json:"appearance"`
	Height        int           `json:"height"`
	Marker        Marker        `json:"marker"`
	Opacity       float64       `json:"opacity"`
	Style         RenderStyle   `json:"renderStyle"`
	Points        []ColumnPoint `json:"points"`
	Faces         []Face        `json:"faces"`
	Columns       int           `json:"columns"`
}
