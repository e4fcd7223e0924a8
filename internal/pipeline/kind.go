package pipeline

import (
	"fmt"

	"ailetic/entity"
)

// Kind selects the pre/post codec pair wrapped around a transform.
type Kind int

const (
	// TextToAudio: text -> transform -> signal -> mp3 -> base64.
	TextToAudio Kind = 1
	// ImageToImage: file -> array -> transform -> array -> png -> base64.
	ImageToImage Kind = 2
)

func (k Kind) String() string {
	switch k {
	case TextToAudio:
		return "text-to-audio"
	case ImageToImage:
		return "image-to-image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k belongs to the closed set of kinds.
func (k Kind) Valid() bool {
	switch k {
	case TextToAudio, ImageToImage:
		return true
	}
	return false
}

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text-to-audio":
		return TextToAudio, nil
	case "image-to-image":
		return ImageToImage, nil
	}
	return 0, fmt.Errorf("%w: %q", entity.ErrUnsupportedPipeline, s)
}
