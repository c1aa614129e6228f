// Package fakeapi serves an in-memory students API with the same routes and
// error shape as the real backend. It backs the remote client tests and the
// "roster fake-api" development command.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/student"
)

// Fault makes the next matching request fail with Status and Message.
type Fault struct {
	Method  string // empty matches any method
	Status  int
	Message string
	Delay   time.Duration
}

// Server holds the fake students.
type Server struct {
	mu       sync.Mutex
	students map[int64]student.Student
	token    string
	faults   []Fault
	requests int

	router *gin.Engine
	log    logrus.FieldLogger
}

// New builds a server. An empty token disables the bearer check.
func New(token string, log logrus.FieldLogger, seed ...student.Student) *Server {
	gin.SetMode(gin.ReleaseMode)
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		students: make(map[int64]student.Student, len(seed)),
		token:    strings.TrimSpace(token),
		log:      log.WithField("component", "fakeapi"),
	}
	for _, st := range seed {
		s.students[st.ID] = st
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests(), s.authorize(), s.injectFaults())
	router.GET("/students", s.listStudents)
	router.POST("/students", s.createStudent)
	router.GET("/students/:id", s.getStudent)
	router.PATCH("/students/:id", s.patchStudent)
	router.DELETE("/students/:id", s.deleteStudent)
	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve fake api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// FailNext queues a fault for an upcoming request.
func (s *Server) FailNext(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, f)
}

// Student returns the stored record for id.
func (s *Server) Student(id int64) (student.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	return st, ok
}

// Requests reports how many requests reached the router.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"elapsed":    time.Since(started),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Debug("handled request")
	}
}

func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) injectFaults() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		var fault *Fault
		for i, f := range s.faults {
			if f.Method == "" || strings.EqualFold(f.Method, c.Request.Method) {
				picked := f
				fault = &picked
				s.faults = append(s.faults[:i], s.faults[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if fault == nil {
			c.Next()
			return
		}
		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if fault.Status == 0 {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(fault.Status, gin.H{"message": fault.Message})
	}
}

func (s *Server) listStudents(c *gin.Context) {
	s.mu.Lock()
	list := make([]student.Student, 0, len(s.students))
	for _, st := range s.students {
		list = append(list, st)
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) createStudent(c *gin.Context) {
	var in student.Student
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}
	if err := in.ValidateRemote(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	var maxID int64
	for id := range s.students {
		if id > maxID {
			maxID = id
		}
	}
	in.ID = maxID + 1
	s.students[in.ID] = in
	s.mu.Unlock()

	c.JSON(http.StatusCreated, in)
}

func (s *Server) getStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	st, found := s.Student(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) patchStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch student.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}
	if patch.Course != nil && !patch.Course.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown course " + string(*patch.Course)})
		return
	}

	s.mu.Lock()
	current, found := s.students[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	updated := patch.Apply(current)
	s.students[id] = updated
	s.mu.Unlock()

	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.students[id]
	delete(s.students, id)
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Student ID must be a positive integer"})
		return 0, false
	}
	return id, true
}
