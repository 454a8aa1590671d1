package ui

import (
	"fmt"

	"tokscraper/pkg/tiktok"
)

// PrintProfile renders a user profile record
func PrintProfile(p *tiktok.UserProfile) {
	PrintHeader("user " + p.UniqueID)
	PrintInfo("Name", p.NickName)
	PrintInfo("ID", p.UserID)
	PrintInfo("Followers", fmt.Sprint(p.Fans))
	PrintInfo("Following", fmt.Sprint(p.Following))
	PrintInfo("Hearts", p.Heart)
	PrintInfo("Videos", fmt.Sprint(p.Video))
	if p.Verified {
		PrintSuccess("Verified")
	}
	if p.Signature != "" {
		PrintDim(p.Signature)
	}
}

// PrintHashtag renders a challenge record
func PrintHashtag(h *tiktok.HashtagInfo) {
	PrintHeader("hashtag " + h.ChallengeName)
	PrintInfo("ID", h.ChallengeID)
	PrintInfo("Posts", fmt.Sprint(h.Posts))
	PrintInfo("Views", h.Views)
	if h.IsCommerce {
		PrintDim("commerce challenge")
	}
}

// PrintSummary renders the terminal totals for a listing run
func PrintSummary(collected, downloaded, failed int, artifacts []string) {
	PrintHeader("results")
	PrintInfo("Collected", fmt.Sprint(collected))
	if downloaded > 0 || failed > 0 {
		PrintInfo("Downloaded", fmt.Sprint(downloaded))
		if failed > 0 {
			PrintError("Failed", failed)
		}
	}
	for _, name := range artifacts {
		if name != "" {
			PrintInfo("Saved", name)
		}
	}
}
