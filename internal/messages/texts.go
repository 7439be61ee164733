package messages

// ─── Social ──────────────────────────────────────────────────────────────────

const (
	FollowTitle = "Follow"
	FollowBody  = "%s followed you"

	RepostTitle = "New Repost"
	RepostBody  = "%s reposted your %s %s"

	RepostOfRepostBody = "%s reposted your repost of %s"

	FavoriteTitle = "Favorite"
	FavoriteBody  = ""

	TastemakerTitle = "You're a Taste Maker!"
	TastemakerBody  = "%s is now trending thanks to you! Great work 🙌🏽"
)

// ─── Remixes ─────────────────────────────────────────────────────────────────

const (
	RemixTitle = "New Remix Of Your Track ♻️"
	RemixBody  = "New remix of your track %s: %s uploaded %s"

	CosignTitle = "New Track Co-Sign! 🔥"
	CosignBody  = "%s Co-Signed your Remix of %s"
)

// ─── Tipping ─────────────────────────────────────────────────────────────────

const (
	SupporterRankUpTitle = "#%d Top Supporter"
	SupporterRankUpBody  = "%s became your #%d Top Supporter!"

	SupportingRankUpBody = "You're now %s's #%d Top Supporter!"

	TierChangeTitle = "New Tier Unlocked 🎉"
	TierChangeBody  = "Congrats, you've reached %s Tier! Enjoy your new perks."

	ReactionTitle = "%s reacted"
	ReactionBody  = "%s reacted to your tip of %s $WAVE"

	TipReceiveTitle = "You Received a Tip!"
	TipReceiveBody  = "%s sent you a tip of %s $WAVE"

	TipSendTitle = "Your Tip Was Sent!"
	TipSendBody  = "You successfully sent a tip of %s $WAVE to %s"
)
