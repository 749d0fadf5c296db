package director

import (
	"fmt"

	"github.com/shouni/go-magazine-kit/pkg/domain"
)

const (
	// BriefsMinImages 以上の画像があればブリーフ（グリッド）レイアウトになります。
	BriefsMinImages = 4
	// SplitMinImages 以上の画像があれば分割レイアウトになります。
	SplitMinImages = 2
)

// SelectLayout は画像枚数からレイアウトを決定します。
// この決定は最終的なもので、生成側はこれに従うよう指示されます。
func SelectLayout(imageCount int) domain.LayoutDecision {
	switch {
	case imageCount >= BriefsMinImages:
		return domain.LayoutDecision{
			Type:   domain.LayoutBriefs,
			Label:  "Type C (Briefs)",
			Reason: fmt.Sprintf("%d images supplied, so a briefs grid layout fits best.", imageCount),
		}
	case imageCount >= SplitMinImages:
		return domain.LayoutDecision{
			Type:   domain.LayoutSplit,
			Label:  "Type B (Split)",
			Reason: "2-3 images supplied, so a split layout fits best.",
		}
	default:
		return domain.LayoutDecision{
			Type:   domain.LayoutFeature,
			Label:  "Type A (Feature)",
			Reason: "At most one image supplied, so a feature layout fits best.",
		}
	}
}
