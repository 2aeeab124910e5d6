package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Travel layer.
	ErrBadRequest      = "E_BAD_REQUEST"
	ErrEraNotFound     = "E_ERA_NOT_FOUND"
	ErrTravelBusy      = "E_TRAVEL_BUSY"
	ErrTravelCancelled = "E_TRAVEL_CANCELLED"
	ErrInternal        = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrEraNotFound:     {},
	ErrTravelBusy:      {},
	ErrTravelCancelled: {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
