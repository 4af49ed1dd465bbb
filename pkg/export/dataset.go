package export

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Section is a titled dataset. Multi-section documents render each section
// under its own fixed header, in order.
type Section struct {
	Title string
	Data  Dataset
}

// Orientation selects the page layout for paged formats.
type Orientation string

const (
	OrientationPortrait  Orientation = "P"
	OrientationLandscape Orientation = "L"
)

// Valid reports whether the orientation is a supported value.
func (o Orientation) Valid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}
