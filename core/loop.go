package core

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/model"
)

// FrameLoop uploads a mesh once and then redraws it until the host window quits
type FrameLoop struct {
	Source MessageSource
	Device GraphicsDevice
	Mesh   model.Mesh

	// Log and Stats are optional
	Log   log.FieldLogger
	Stats *FrameStats
}

// Run uploads the mesh and spins the loop. Each iteration takes at most one
// pending message off the queue; a quit message ends the loop without drawing,
// otherwise exactly one frame is drawn.
func (l *FrameLoop) Run() error {
	logger := l.Log
	if logger == nil {
		logger = log.StandardLogger()
	}

	if err := l.Device.SetVertexBuffer(l.Mesh.Vertices); err != nil {
		return err
	}
	if err := l.Device.SetIndexBuffer(l.Mesh.Indices); err != nil {
		return err
	}
	count := l.Mesh.IndexCount()

	for {
		if msg, ok := l.Source.Peek(); ok {
			l.Source.Dispatch(msg)
			if msg.Kind == QuitMessage {
				logger.Info("frame loop exited")
				return nil
			}
		}
		if err := l.Device.Draw(count); err != nil {
			return errors.Wrap(err, "core.FrameLoop.Run()")
		}
		if l.Stats != nil {
			l.Stats.Frame()
		}
	}
}
