package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todocat/internal/service"
	"todocat/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errDebugSentry is raised by the debug route to verify error reporting end to end.
var errDebugSentry = errors.New("debug-sentry: deliberate server error")

func (s *Server) handleDebugSentry(c *gin.Context) {
	panic(errDebugSentry)
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	p, ok := s.readPayload(c)
	if !ok {
		return
	}

	errs := fieldErrors{}
	name, present := p.text(nameField, true, errs)
	if present {
		validName(name, errs)
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	cat, err := s.store.CreateCategory(c.Request.Context(), name)
	if errors.Is(err, store.ErrDuplicate) {
		errs.add(nameField, msgNameTaken)
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleListTasks(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// An unparseable filter matches nothing.
			c.JSON(http.StatusOK, []service.Task{})
			return
		}
		categoryID = &id
	}

	tasks, err := s.store.ListTasks(c.Request.Context(), categoryID)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	p, ok := s.readPayload(c)
	if !ok {
		return
	}

	errs := fieldErrors{}
	desc, _ := p.text(descField, true, errs)
	categoryID, hasCategory := p.pk(categoryField, true, errs)
	completed, _ := p.boolean(completedField, errs)
	if hasCategory {
		s.checkCategory(c, categoryID, errs)
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), desc, categoryID, completed)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, ok := s.lookupTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	task, ok := s.lookupTask(c)
	if !ok {
		return
	}
	p, ok := s.readPayload(c)
	if !ok {
		return
	}

	var patch service.TaskPatch
	errs := fieldErrors{}
	if desc, present := p.text(descField, false, errs); present {
		patch.Description = &desc
	}
	if id, present := p.pk(categoryField, false, errs); present {
		if s.checkCategory(c, id, errs) {
			patch.Category = &id
		}
	}
	if done, present := p.boolean(completedField, errs); present {
		patch.IsCompleted = &done
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	updated, err := s.store.UpdateTask(c.Request.Context(), task.ID, patch)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	task, ok := s.lookupTask(c)
	if !ok {
		return
	}
	err := s.store.DeleteTask(c.Request.Context(), task.ID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupTask resolves the :id parameter, writing a 404 when it does not name a task.
func (s *Server) lookupTask(c *gin.Context) (service.Task, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return service.Task{}, false
	}
	task, err := s.store.GetTask(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return service.Task{}, false
	}
	if err != nil {
		s.serverError(c, err)
		return service.Task{}, false
	}
	return task, true
}

// checkCategory records an invalid-pk message when id names no category.
func (s *Server) checkCategory(c *gin.Context, id int64, errs fieldErrors) bool {
	_, err := s.store.GetCategory(c.Request.Context(), id)
	if err == nil {
		return true
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.log.Error().Err(err).Int64("category", id).Msg("category lookup failed")
	}
	errs.add(categoryField, invalidPK(id))
	return false
}

func (s *Server) readPayload(c *gin.Context) (payload, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{detailField: "Unable to read request body."})
		return nil, false
	}
	p, err := decodePayload(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{detailField: err.Error()})
		return nil, false
	}
	return p, true
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	s.report(err)
	c.JSON(http.StatusInternalServerError, gin.H{detailField: "A server error occurred."})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{detailField: msgNotFound})
}
