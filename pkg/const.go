package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
	OrderId   string = "order_id"
)

// DefaultKondutoEndpoint is the production base URL of the Konduto API.
const DefaultKondutoEndpoint = "https://api.konduto.com/v1"
