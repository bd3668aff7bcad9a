package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctsync/ctsync/constants"
	"github.com/nareix/joy4/av"
	"github.com/nareix/joy4/av/avutil"
)

// ContentTypeForPath takes an evidence file path and returns the media type
// of the file and an error. mp4 evidence is additionally checked for an h264
// codec since that is the only video codec the render side is guaranteed to
// play. Unsupported extensions are rejected.
func ContentTypeForPath(path string) (*constants.Media, error) {
	ext := constants.Extension(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
	if ext == constants.ExtensionMp4 {
		ok, err := CheckMp4Codec(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("mp4 file codec must be h264")
		}
	}
	for idx := range constants.Medias {
		media := constants.Medias[idx]
		for _, v := range media.Extensions {
			if v == ext {
				return &media, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported file extension for `%s`", ext)
}

// CheckMp4Codec reports whether every stream in the file at path is h264
// video.
func CheckMp4Codec(path string) (bool, error) {
	file, err := avutil.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	streams, err := file.Streams()
	if err != nil {
		return false, err
	}

	for _, stream := range streams {
		if _, ok := stream.(av.VideoCodecData); !ok {
			return false, nil
		}
		if stream.Type() != av.H264 {
			return false, nil
		}
		return true, nil
	}
	return false, nil
}
