package coco

// ImageIndex maps an image id to its file name relative to the image dir.
type ImageIndex map[int64]string

// CategoryIndex maps a category id to its display name.
type CategoryIndex map[int64]string

func BuildFileNameIndex(imgs []ImageInfo) (ret ImageIndex) {
	ret = make(ImageIndex, len(imgs))
	for _, img := range imgs {
		ret[img.ID] = img.FileName
	}

	return
}

func BuildCategoryIndex(cats []Category) (ret CategoryIndex) {
	ret = make(CategoryIndex, len(cats))
	for _, c := range cats {
		ret[c.ID] = c.Name
	}

	return
}

// BuildAnnotationIndex keys annotations by id. Later duplicates win.
func BuildAnnotationIndex(anns []Annotation) (ret map[int64]Annotation) {
	ret = make(map[int64]Annotation, len(anns))
	for _, a := range anns {
		ret[a.ID] = a
	}

	return
}
