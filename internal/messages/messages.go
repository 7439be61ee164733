// Package messages renders notification titles and bodies. Every builder
// returns a (title, body) pair so call sites stay uniform.
package messages

import "fmt"

// ─── Social builders ─────────────────────────────────────────────────────────

func Follow(followerName string) (string, string) {
	return FollowTitle, fmt.Sprintf(FollowBody, followerName)
}

func Repost(reposterName, entityType, entityName string) (string, string) {
	return RepostTitle, fmt.Sprintf(RepostBody, reposterName, entityType, entityName)
}

func RepostOfRepost(reposterName, entityName string) (string, string) {
	return RepostTitle, fmt.Sprintf(RepostOfRepostBody, reposterName, entityName)
}

func Favorite() (string, string) {
	return FavoriteTitle, FavoriteBody
}

func Tastemaker(entityName string) (string, string) {
	return TastemakerTitle, fmt.Sprintf(TastemakerBody, entityName)
}

// ─── Remix builders ──────────────────────────────────────────────────────────

func Remix(parentTrackTitle, remixerName, remixTitle string) (string, string) {
	return RemixTitle, fmt.Sprintf(RemixBody, parentTrackTitle, remixerName, remixTitle)
}

func Cosign(cosignerName, trackTitle string) (string, string) {
	return CosignTitle, fmt.Sprintf(CosignBody, cosignerName, trackTitle)
}

// ─── Tipping builders ────────────────────────────────────────────────────────

func SupporterRankUp(rank int, supporterName string) (string, string) {
	return fmt.Sprintf(SupporterRankUpTitle, rank), fmt.Sprintf(SupporterRankUpBody, supporterName, rank)
}

func SupportingRankUp(rank int, supportedName string) (string, string) {
	return fmt.Sprintf(SupporterRankUpTitle, rank), fmt.Sprintf(SupportingRankUpBody, supportedName, rank)
}

func TierChange(tier string) (string, string) {
	return TierChangeTitle, fmt.Sprintf(TierChangeBody, tier)
}

func Reaction(reactingUserName, amount string) (string, string) {
	return fmt.Sprintf(ReactionTitle, reactingUserName), fmt.Sprintf(ReactionBody, reactingUserName, amount)
}

func TipReceive(senderName, amount string) (string, string) {
	return TipReceiveTitle, fmt.Sprintf(TipReceiveBody, senderName, amount)
}

func TipSend(receiverName, amount string) (string, string) {
	return TipSendTitle, fmt.Sprintf(TipSendBody, amount, receiverName)
}
