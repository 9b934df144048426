package ui

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
	apperrors "samplemeta/internal/errors"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createExperimentRequest struct {
	Name        string   `json:"name" binding:"required"`
	Owner       string   `json:"owner"`
	Description string   `json:"description"`
	Groups      []string `json:"groups"`
}

type commitRequest struct {
	Indices []int  `json:"indices"`
	Group   string `json:"group"`
}

// importResponse is the import payload plus the token needed to confirm it
type importResponse struct {
	experiment.ImportPayload
	Token        string `json:"token,omitempty"`
	ExperimentID string `json:"experiment_id"`
	Fingerprint  string `json:"fingerprint,omitempty"`
}

func (s *Server) handleCreateExperiment(c *gin.Context) {
	var req createExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	d := experiment.NewDescriptor(req.Name, req.Owner, req.Description, req.Groups...)
	exp, err := s.services.Experiments.Create(c.Request.Context(), d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (s *Server) handleGetExperiment(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	exp, err := s.services.Experiments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (s *Server) handleGroupData(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	data, err := s.services.Experiments.GroupData(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiment_id": id, "data": data})
}

func (s *Server) handleTemplate(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	// The workbook is buffered by excelize before the first byte is written,
	// so a lookup failure still gets a JSON error.
	exp, err := s.services.Experiments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", templateFilename(exp.Descriptor.Name)))
	if _, err := s.services.Templates.Write(c.Request.Context(), id, c.Writer); err != nil {
		respondError(c, err)
		return
	}
}

func (s *Server) handleImport(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	file, closeFile, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer closeFile()

	preview, err := s.services.Imports.Preview(c.Request.Context(), sessionID(c), id, file)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !preview.Result.Success() {
		status = http.StatusUnprocessableEntity
	}
	if c.Query("format") == "html" {
		page, err := RenderImportReport(preview.Result)
		if err != nil {
			respondError(c, apperrors.Wrap(err, "failed to render import report"))
			return
		}
		c.Data(status, "text/html; charset=utf-8", page)
		return
	}

	resp := importResponse{
		ImportPayload: preview.Result.Payload(),
		Token:         preview.Token.String(),
		ExperimentID:  id.String(),
	}
	if preview.Result.Success() {
		if fp, err := preview.Result.Fingerprint(); err == nil {
			resp.Fingerprint = fp.String()
		}
	}
	c.JSON(status, resp)
}

func (s *Server) handleConfirmImport(c *gin.Context) {
	token, err := core.ParsePreviewToken(c.Param("token"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	confirmed, err := s.services.Imports.Confirm(c.Request.Context(), sessionID(c), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"experiment_id":         confirmed.ExperimentID,
		"independent_variables": confirmed.Result.IndependentVariables(),
		"message":               confirmed.Result.Message(),
	})
}

func (s *Server) handleRosterPreview(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	file, closeFile, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer closeFile()

	result, err := s.services.Rosters.Preview(c.Request.Context(), sessionID(c), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if !result.Success() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result.Payload())
}

func (s *Server) handleRosterPending(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	pending := s.services.Rosters.Pending(sessionID(c), id)
	if pending == nil {
		pending = []subject.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (s *Server) handleRosterCommit(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	result, err := s.services.Rosters.Commit(c.Request.Context(), sessionID(c), id, req.Indices, req.Group)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListSubjects(c *gin.Context) {
	id, ok := experimentParam(c)
	if !ok {
		return
	}
	subjects, err := s.services.Rosters.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func experimentParam(c *gin.Context) (core.ExperimentID, bool) {
	id, err := core.ParseExperimentID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

// uploadedFile opens the multipart "file" field
func uploadedFile(c *gin.Context) (io.Reader, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, apperrors.TooLarge(fmt.Sprintf("file too large: uploads are limited to %d bytes", tooLarge.Limit)))
			return nil, nil, false
		}
		respondError(c, apperrors.InvalidInput("missing upload field \"file\""))
		return nil, nil, false
	}
	var f multipart.File
	if f, err = header.Open(); err != nil {
		respondError(c, apperrors.IOFailure("failed to open upload", err))
		return nil, nil, false
	}
	return f, func() { f.Close() }, true
}

func templateFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if clean == "" {
		clean = "experiment"
	}
	return clean + "_metadata.xlsx"
}
