package reporting

import "time"

const (
	defaultFlushSize     = 500
	defaultFlushInterval = 2 * time.Second
	defaultFlushRPS      = 20

	defaultBackfillPageSize = 1000
	defaultBackfillWorkers  = 4
)
