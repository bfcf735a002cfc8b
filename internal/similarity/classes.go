package similarity

import "dupescan/internal/fingerprint"

// Class is the media family used to select a rule and threshold.
type Class int

const (
	ClassBinary Class = iota
	ClassText
	ClassAudio
	ClassVideo
)

func (c Class) String() string {
	switch c {
	case ClassText:
		return "text"
	case ClassAudio:
		return "audio"
	case ClassVideo:
		return "video"
	default:
		return "binary"
	}
}

var audioTypes = map[string]struct{}{
	"wav": {}, "mp3": {}, "flac": {}, "aac": {}, "ogg": {}, "m4a": {}, "wma": {}, "aiff": {},
}

var videoTypes = map[string]struct{}{
	"mp4": {}, "avi": {}, "mov": {}, "mkv": {}, "wmv": {}, "flv": {},
	"webm": {}, "m4v": {}, "3gp": {}, "ogv": {}, "ts": {}, "mts": {},
}

// ClassOf returns the media class of a content type.
func ClassOf(contentType string) Class {
	if contentType == fingerprint.TextType {
		return ClassText
	}
	if _, ok := audioTypes[contentType]; ok {
		return ClassAudio
	}
	if _, ok := videoTypes[contentType]; ok {
		return ClassVideo
	}
	return ClassBinary
}
