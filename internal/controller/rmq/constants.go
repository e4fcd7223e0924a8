package rmq

const (
	exchangeKind       = "topic"
	exchangeDurable    = true
	exchangeAutoDelete = false
	exchangeInternal   = false
	exchangeNoWait     = false

	publishMandatory = false
	publishImmediate = false

	routingKeyPrefix = "compute"
	contentTypeJSON  = "application/json"
)
