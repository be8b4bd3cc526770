package models

// Icon identifies one of the fixed icons the frontend knows how to draw.
// Services store the key; the frontend resolves it at render time.
type Icon string

const (
	IconBriefcase   Icon = "briefcase"
	IconRocket      Icon = "rocket"
	IconShoppingBag Icon = "shopping-bag"
	IconUsers       Icon = "users"
	IconCode        Icon = "code"
	IconHeart       Icon = "heart"
	IconZap         Icon = "zap"
	IconShield      Icon = "shield"
	IconSearch      Icon = "search"
	IconPenTool     Icon = "pen-tool"

	IconFirstYear      Icon = "first-year"
	IconPremiumQuality Icon = "premium-quality"
	IconFastDelivery   Icon = "fast-delivery"
	IconPixelPerfect   Icon = "pixel-perfect"
	IconSEO            Icon = "seo"
	IconPricing        Icon = "pricing"
	IconDiscovery      Icon = "discovery"
	IconDesignConcept  Icon = "design-concept"
	IconDevelopment    Icon = "development"
	IconLaunchSupport  Icon = "launch-support"
	IconOurStory       Icon = "our-story"
	IconWhatDrivesUs   Icon = "what-drives-us"
	IconOurApproach    Icon = "our-approach"
	IconOurPromise     Icon = "our-promise"
	IconEmail          Icon = "email"
	IconLocation       Icon = "location"
	IconPhoneCall      Icon = "phone-call"
)

// DefaultServiceIcon is used when a service is saved without an icon.
const DefaultServiceIcon = IconBriefcase

var knownIcons = map[Icon]struct{}{
	IconBriefcase: {}, IconRocket: {}, IconShoppingBag: {}, IconUsers: {},
	IconCode: {}, IconHeart: {}, IconZap: {}, IconShield: {}, IconSearch: {},
	IconPenTool: {}, IconFirstYear: {}, IconPremiumQuality: {},
	IconFastDelivery: {}, IconPixelPerfect: {}, IconSEO: {}, IconPricing: {},
	IconDiscovery: {}, IconDesignConcept: {}, IconDevelopment: {},
	IconLaunchSupport: {}, IconOurStory: {}, IconWhatDrivesUs: {},
	IconOurApproach: {}, IconOurPromise: {}, IconEmail: {}, IconLocation: {},
	IconPhoneCall: {},
}

// Valid reports whether i is one of the known icon keys.
func (i Icon) Valid() bool {
	_, ok := knownIcons[i]
	return ok
}

// Icons returns every known icon key, unordered.
func Icons() []Icon {
	out := make([]Icon, 0, len(knownIcons))
	for i := range knownIcons {
		out = append(out, i)
	}
	return out
}
