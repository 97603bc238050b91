package middlewares

import (
	"github.com/amplify-dev/amplify/board"
	"github.com/gin-gonic/gin"
)

const viewerContextKey = "viewer"

// ViewerIdentity resolves the requesting viewer from headers set by the
// authentication gateway in front of this service: "sub" carries the verified
// user id, "session" carries the opaque per-browser token used for view
// deduplication. Both may be absent; an anonymous request is not an error
// here, individual write handlers reject it instead.
func ViewerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := board.Viewer{
			Id:    c.GetHeader("sub"),
			Token: c.GetHeader("session"),
		}
		// Authenticated viewers dedup views by identity, not by browser
		// session, so the same user does not re-count from a second device.
		if viewer.Id != "" {
			viewer.Token = viewer.Id
		}
		c.Set(viewerContextKey, viewer)
		c.Next()
	}
}

// GetViewer returns the viewer resolved by ViewerIdentity, or the anonymous
// viewer if the middleware did not run.
func GetViewer(c *gin.Context) board.Viewer {
	value, ok := c.Get(viewerContextKey)
	if !ok {
		return board.Viewer{}
	}
	viewer, ok := value.(board.Viewer)
	if !ok {
		return board.Viewer{}
	}
	return viewer
}
