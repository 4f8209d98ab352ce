package scenario

// Location is a place the player can visit. Image and music paths are passed
// through to whatever renders the scene.
type Location struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Image       string `yaml:"image,omitempty" json:"image,omitempty"`
	Music       string `yaml:"music,omitempty" json:"music,omitempty"`
	Map         string `yaml:"map,omitempty" json:"map,omitempty"` // map config name, if the location is walkable
	Width       int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height      int    `yaml:"height,omitempty" json:"height,omitempty"`
}

// Size returns the location's map dimensions, falling back to the default
// canvas size.
func (l Location) Size() (int, int) {
	w, h := l.Width, l.Height
	if w <= 0 {
		w = DefaultMapWidth
	}
	if h <= 0 {
		h = DefaultMapHeight
	}
	return w, h
}
