package models

// AudioPayload is a transient audio blob. Inbound payloads come from the
// guest's browser recorder (usually webm/opus); outbound ones are mp3.
type AudioPayload struct {
	Data        []byte
	Filename    string
	ContentType string
}

const (
	ContentTypeMPEG   = "audio/mpeg"
	DefaultUploadName = "audio.webm"
)

func (a AudioPayload) Empty() bool { return len(a.Data) == 0 }

// Name falls back to a webm filename so transcription providers can sniff
// the container from the extension.
func (a AudioPayload) Name() string {
	if a.Filename == "" {
		return DefaultUploadName
	}
	return a.Filename
}
