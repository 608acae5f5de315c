package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"vibenest/internal/service"
	"vibenest/internal/speech"

	"github.com/gin-gonic/gin"
)

const (
	errTurnFailed    = "failed to process conversation turn"
	errAnalyzeFailed = "failed to analyze recording"

	// maxUploadBytes bounds recording uploads (multipart body).
	maxUploadBytes = 16 << 20 // 16 MB
)

// Request DTO for typed conversation turns.
type converseRequest struct {
	Text string `json:"text" binding:"required"`
}

// turnJSON shapes one turn result for the client; audio rides along as
// base64 when synthesis succeeded.
func turnJSON(res service.TurnResult) gin.H {
	resp := gin.H{
		"success":               true,
		"user_input":            res.UserInput,
		"ai_response":           res.Reply,
		"detected_mood":         res.State.VibeName,
		"pending_mood":          res.State.PendingVibe,
		"awaiting_confirmation": res.State.AwaitingConfirmation,
	}
	if len(res.Audio) > 0 {
		resp["audio"] = base64.StdEncoding.EncodeToString(res.Audio)
	}
	return resp
}

// readAudioUpload pulls the "file" part out of a multipart request.
func readAudioUpload(c *gin.Context) ([]byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing audio upload 'file': %w", err)
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read audio upload: %w", err)
	}
	if len(audio) == 0 {
		return nil, "", errors.New("empty audio upload")
	}
	return audio, header.Filename, nil
}

// @Summary      Run one typed conversation turn
// @Tags         conversation
// @Accept       json
// @Produce      json
// @Param        body  body  converseRequest  true  "User utterance"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /converse [post]
func (h *Handler) converse(c *gin.Context) {
	var req converseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body: " + err.Error()})
		return
	}

	res, err := h.services.Conversation.Converse(c.Request.Context(), req.Text)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errTurnFailed, "converse_failed", err)
		return
	}
	c.JSON(http.StatusOK, turnJSON(res))
}

// @Summary      Quick mood classification from voice
// @Description  Classifies the recording and sets the vibe directly, no confirmation dialogue
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio recording"
// @Success      200  {object}  map[string]interface{}  "success, detected_mood, confidence, vibe_details"
// @Failure      400  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}  "recording not suitable"
// @Router       /analyze-voice [post]
func (h *Handler) analyzeVoice(c *gin.Context) {
	audio, filename, err := readAudioUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.services.QuickAnalysis.AnalyzeVoice(c.Request.Context(), audio, filename)
	if err != nil {
		if errors.Is(err, service.ErrUnsuitableRecording) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": service.ErrUnsuitableRecording.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errAnalyzeFailed, "analyze_voice_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"detected_mood": res.Vibe,
		"label":         res.Label,
		"confidence":    res.Confidence,
		"vibe_details":  res.State.VibeDetails,
	})
}

// @Summary      Run one voice conversation turn
// @Description  Transcribes the recording, runs the confirmation flow and returns the reply (with optional synthesized audio)
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio recording"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}  "unintelligible audio"
// @Failure      500  {object}  map[string]interface{}
// @Router       /analyze-voice-conversation [post]
func (h *Handler) analyzeVoiceConversation(c *gin.Context) {
	audio, filename, err := readAudioUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.services.Conversation.VoiceTurn(c.Request.Context(), audio, filename)
	if err != nil {
		if errors.Is(err, speech.ErrUnclearAudio) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": speech.ErrUnclearAudio.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errTurnFailed, "voice_turn_failed", err)
		return
	}
	c.JSON(http.StatusOK, turnJSON(res))
}
