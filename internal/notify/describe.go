package notify

import (
	"fmt"

	"github.com/planit-ai/planit/internal/textutil"
	"github.com/planit-ai/planit/pkg/domain"
)

// Describe renders n as a one-line summary. Without an actor name, comment
// and like notifications fall back to the preview text.
func Describe(n domain.Notification) string {
	preview := textutil.SingleLine(n.PreviewText)
	switch n.Type {
	case domain.NotificationComment:
		if n.ActorName != "" {
			return fmt.Sprintf("%s commented: %s", n.ActorName, preview)
		}
	case domain.NotificationLike:
		if n.ActorName != "" {
			return fmt.Sprintf("%s liked your post", n.ActorName)
		}
	case domain.NotificationKeyword:
		return "keyword match: " + preview
	}
	return preview
}
