package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/presenter"
	"github.com/mrled/suns/msgsvc/internal/validation"
)

// maxBodyBytes bounds create and update payloads
const maxBodyBytes = 64 << 10

func (s *Server) handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readBody returns the raw request body, rejecting oversized payloads
func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &BadRequestError{Message: "Request body too large."}
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func (s *Server) handleCreate(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		c.Error(err)
		return
	}

	content, err := validation.DecodeMessageRequest(body)
	if err != nil {
		c.Error(err)
		return
	}

	msg, err := s.messages.Create(c.Request.Context(), content)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, presenter.MessageResponse{Message: presenter.Message(msg)})
}

func (s *Server) handleGet(c *gin.Context) {
	msg, err := s.messages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, presenter.MessageResponse{Message: presenter.Message(msg)})
}

// queryInt parses an integer query parameter, reporting whether it was present and valid
func queryInt(c *gin.Context, key string) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Server) handleList(c *gin.Context) {
	// The service treats a page below 1 as 1 and a size of 0 as the default
	page, _ := queryInt(c, "page")
	limit, limitGiven := queryInt(c, "limit")

	p, err := s.messages.List(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, presenter.List(p, func(number int) string {
		return s.pageURL(number, p.Size, limitGiven)
	}))
}

// pageURL links to page number of the list, keeping the client's page size if it chose one
func (s *Server) pageURL(number, size int, keepSize bool) string {
	link := fmt.Sprintf("%s/messages?page=%d", s.prefix, number)
	if keepSize {
		link += fmt.Sprintf("&limit=%d", size)
	}
	return link
}

func (s *Server) handleUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// A missing message is reported before any problem with the body
	exists, err := s.messages.Exists(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}
	if !exists {
		c.Error(model.ErrNotFound)
		return
	}

	body, err := readBody(c)
	if err != nil {
		c.Error(err)
		return
	}
	content, err := validation.DecodeMessageRequest(body)
	if err != nil {
		c.Error(err)
		return
	}

	msg, err := s.messages.Update(ctx, id, content)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, presenter.MessageResponse{Message: presenter.Message(msg)})
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.messages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
