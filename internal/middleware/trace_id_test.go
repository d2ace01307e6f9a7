package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type TraceIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestTraceIDSuite(t *testing.T) {
	suite.Run(t, new(TraceIDTestSuite))
}

func (s *TraceIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

func (s *TraceIDTestSuite) run(header string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(TraceIDHeader, header)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := TraceID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	s.Require().NoError(handler(c))
	return c, rec
}

func (s *TraceIDTestSuite) TestGeneratesIDWhenHeaderAbsent() {
	c, rec := s.run("")

	traceID := GetTraceID(c)
	_, err := uuid.Parse(traceID)
	s.NoError(err)
	s.Equal(traceID, rec.Header().Get(TraceIDHeader))
}

func (s *TraceIDTestSuite) TestHonorsWellFormedHeader() {
	supplied := uuid.New().String()
	c, rec := s.run(supplied)

	s.Equal(supplied, GetTraceID(c))
	s.Equal(supplied, rec.Header().Get(TraceIDHeader))
}

func (s *TraceIDTestSuite) TestReplacesMalformedHeader() {
	c, _ := s.run("not-a-trace-id")

	traceID := GetTraceID(c)
	s.NotEqual("not-a-trace-id", traceID)
	_, err := uuid.Parse(traceID)
	s.NoError(err)
}

func (s *TraceIDTestSuite) TestGetTraceID_WithoutMiddleware() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := s.echo.NewContext(req, httptest.NewRecorder())
	s.Empty(GetTraceID(c))
}
