package dataset

import "path/filepath"

// Item is one labeled plant image in an evaluation dataset: an image
// reference plus the ground-truth names to score the model against.
type Item struct {
	ID              string `json:"id" yaml:"id" parquet:"id"`
	ImagePath       string `json:"image_path,omitempty" yaml:"image_path,omitempty" parquet:"image_path,optional"`
	ImageURL        string `json:"image_url,omitempty" yaml:"image_url,omitempty" parquet:"image_url,optional"`
	CommonName      string `json:"common_name" yaml:"common_name" parquet:"common_name"`
	AlternativeName string `json:"alternative_name,omitempty" yaml:"alternative_name,omitempty" parquet:"alternative_name,optional"`
	ScientificName  string `json:"scientific_name" yaml:"scientific_name" parquet:"scientific_name"`
}

// ResolveImagePath returns the item's image path resolved against the
// dataset file's directory when it is relative.
func (i *Item) ResolveImagePath(datasetDir string) string {
	if i.ImagePath == "" || filepath.IsAbs(i.ImagePath) {
		return i.ImagePath
	}
	return filepath.Join(datasetDir, i.ImagePath)
}
