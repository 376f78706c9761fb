package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/services"
	"github.com/yoockh/halte-concierge/internal/utils"
)

const (
	AudioField = "audio"

	DefaultMaxUpload = 25 << 20
)

type TalkHandler struct {
	svc       services.TalkService
	maxUpload int64
	log       *logrus.Logger
}

func NewTalkHandler(svc services.TalkService, maxUpload int64, log *logrus.Logger) *TalkHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	if log == nil {
		log = logrus.New()
	}
	return &TalkHandler{svc: svc, maxUpload: maxUpload, log: log}
}

// Talk answers POST /talk: a multipart recording in, mp3 speech out.
func (h *TalkHandler) Talk(c *gin.Context) {
	audio, err := h.readAudio(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.svc.Handle(c.Request.Context(), requestID(c), audio)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, res.ContentType, res.Audio)

	h.log.WithFields(logrus.Fields{
		"request_id": requestID(c),
		"stage":      models.StageDelivered,
		"augmented":  res.Augmented,
	}).Debug("pipeline stage")
}

func (h *TalkHandler) readAudio(c *gin.Context) (models.AudioPayload, error) {
	const op = "TalkHandler.readAudio"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := uploadedFile(c)
	if err != nil {
		return models.AudioPayload{}, uploadError(op, "no audio part in request", err)
	}

	f, err := fh.Open()
	if err != nil {
		return models.AudioPayload{}, utils.E(utils.CodeMissingPayload, op, "open audio part", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.AudioPayload{}, uploadError(op, "read audio part", err)
	}
	if len(data) == 0 {
		return models.AudioPayload{}, utils.E(utils.CodeMissingPayload, op, "audio part is empty", nil)
	}

	return models.AudioPayload{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// uploadError keeps oversized uploads distinguishable in the logs; the caller
// gets the same bare 500 either way.
func uploadError(op, msg string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return utils.E(utils.CodeMissingPayload, op, "upload exceeds size limit", err)
	}
	return utils.E(utils.CodeMissingPayload, op, msg, err)
}

// uploadedFile prefers the "audio" field and otherwise accepts the form's
// only file part, whatever the recorder named it.
func uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(AudioField)
	if err == nil {
		return fh, nil
	}
	if c.Request.MultipartForm == nil {
		return nil, err
	}

	var only *multipart.FileHeader
	for _, files := range c.Request.MultipartForm.File {
		for _, f := range files {
			if only != nil {
				return nil, err
			}
			only = f
		}
	}
	if only == nil {
		return nil, err
	}
	return only, nil
}
