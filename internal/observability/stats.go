package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	Requests          uint64            `json:"requests"`
	EmployersFetched  uint64            `json:"employers_fetched"`
	VacanciesFetched  uint64            `json:"vacancies_fetched"`
	RowsInserted      uint64            `json:"rows_inserted"`
	ErrorsTotal       uint64            `json:"errors_total"`
	RequestSecondsAvg float64           `json:"request_seconds_avg"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	requests         uint64
	employersFetched uint64
	vacanciesFetched uint64
	rowsInserted     uint64
	errorsTotal      uint64

	requestNanos uint64

	statsMu           sync.Mutex
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func ObserveRequest(seconds float64) {
	atomic.AddUint64(&requests, 1)
	if seconds > 0 {
		atomic.AddUint64(&requestNanos, uint64(seconds*1e9))
	}
}

func AddEmployersFetched(n int) {
	if n > 0 {
		atomic.AddUint64(&employersFetched, uint64(n))
	}
}

func AddVacanciesFetched(n int) {
	if n > 0 {
		atomic.AddUint64(&vacanciesFetched, uint64(n))
	}
}

func AddRowsInserted(n int) {
	if n > 0 {
		atomic.AddUint64(&rowsInserted, uint64(n))
	}
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&requests)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&requestNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		Requests:          count,
		EmployersFetched:  atomic.LoadUint64(&employersFetched),
		VacanciesFetched:  atomic.LoadUint64(&vacanciesFetched),
		RowsInserted:      atomic.LoadUint64(&rowsInserted),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		RequestSecondsAvg: avg,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
