// Package hugot runs the locally cached NER and department-classification
// models through ONNX pipelines. Models load once at startup and are passed
// into the components that need them; nothing here is a package-level
// global.
package hugot

import (
	"fmt"

	khugot "github.com/knights-analytics/hugot"
)

// Session owns the ONNX runtime session shared by every pipeline. The
// runtime allows a single session per process, so bootstrap creates one and
// hands it to both constructors.
type Session struct {
	session *khugot.Session
}

func NewSession() (*Session, error) {
	session, err := khugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}
	return &Session{session: session}, nil
}

func (s *Session) Close() error {
	if s.session == nil {
		return nil
	}
	return s.session.Destroy()
}
