package dnswire

// Limits on incoming DNS messages. The resolver does not need to support
// messages larger than 4 KiB; these bound
// preallocation against a crafted header claiming huge section counts.
const (
	MaxIncomingDNSMessageSize = 4096
	MaxQuestions              = 4
	MaxRRPerSection           = 100
	MaxTotalRR                = 200
)
