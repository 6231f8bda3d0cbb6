package dto

import (
	"sort"
	"strings"
)

// Thumbnail names YouTube serves at a size usable as cover art.
var preferredThumbnails = []string{"maxresdefault", "hqdefault", "mqdefault"}

// BestThumbnail picks the highest ranked thumbnail, ordering by preference
// then width (both descending). Among those, the first YouTube
// maxres/hq/mq variant wins; otherwise the top ranked URL is returned.
func BestThumbnail(thumbs []JSONThumbnail) string {
	candidates := make([]JSONThumbnail, 0, len(thumbs))
	for _, t := range thumbs {
		if t.URL != "" {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := deref(candidates[i].Preference), deref(candidates[j].Preference)
		if pi != pj {
			return pi > pj
		}
		return deref(candidates[i].Width) > deref(candidates[j].Width)
	})

	for _, t := range candidates {
		for _, name := range preferredThumbnails {
			if strings.Contains(t.URL, name) {
				return t.URL
			}
		}
	}

	return candidates[0].URL
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
