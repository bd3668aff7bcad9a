package constants

type ContentType string

func (t ContentType) Bytes() []byte {
	return []byte(t)
}

func (t ContentType) String() string {
	return string(t)
}

func (t ContentType) MediaType() MediaType {
	for _, media := range Medias {
		if media.ContentType == t {
			return media.MediaType
		}
	}
	return MediaUnknown
}

const (
	ContentTypeOctetStream ContentType = "application/octet-stream"
	ContentTypeJson        ContentType = "application/json"
	ContentTypeImageGif    ContentType = "image/gif"
	ContentTypeImageJpeg   ContentType = "image/jpeg"
	ContentTypeImagePng    ContentType = "image/png"
	ContentTypeImageWebp   ContentType = "image/webp"
	ContentTypeVideoMp4    ContentType = "video/mp4"
)

type MediaType string

func (m MediaType) String() string {
	return string(m)
}

const (
	MediaUnknown MediaType = "unknown"
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
)

type Extension string

const (
	ExtensionGif  Extension = "gif"
	ExtensionJpg  Extension = "jpg"
	ExtensionJpeg Extension = "jpeg"
	ExtensionPng  Extension = "png"
	ExtensionWebp Extension = "webp"
	ExtensionMp4  Extension = "mp4"
)

type Media struct {
	ContentType ContentType
	MediaType   MediaType
	Extensions  []Extension
}

// Medias lists the evidence formats the board accepts.
var Medias = []Media{
	{ContentTypeImageGif, MediaImage, []Extension{ExtensionGif}},
	{ContentTypeImageJpeg, MediaImage, []Extension{ExtensionJpg, ExtensionJpeg}},
	{ContentTypeImagePng, MediaImage, []Extension{ExtensionPng}},
	{ContentTypeImageWebp, MediaImage, []Extension{ExtensionWebp}},
	{ContentTypeVideoMp4, MediaVideo, []Extension{ExtensionMp4}},
}
