package probe

import "time"

// Dashboard routes used by the probe.
const (
	healthPath       = "/healthz"
	optionsPath      = "/api/options"
	sliderPath       = "/api/slider"
	summaryPath      = "/api/summary"
	dependenciesPath = "/api/dependencies"
	updatePath       = "/api/update"
)

// Component IDs the probe sends values for.
const (
	siteInputID   = "site-dropdown"
	sliderInputID = "payload-slider"
	pieOutputID   = "success-pie-chart"
	allSites      = "ALL"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
	maxResponseBytes        = 4 << 20
	percentageMultiplier    = 100
)
