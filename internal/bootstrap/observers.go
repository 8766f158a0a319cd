package bootstrap

import "github.com/anandks07/docflow/internal/observability/metrics"

// workerObserver narrows WorkerMetrics to the observer interfaces the use
// cases accept, binding the service label once.
type workerObserver struct {
	metrics *metrics.WorkerMetrics
	service string
}

func (o workerObserver) ObservePipeline(pages, chunks int) {
	o.metrics.ObservePipeline(o.service, pages, chunks)
}

func (o workerObserver) RecordDepartment(department string) {
	o.metrics.RecordDepartment(o.service, department)
}

func (o workerObserver) RecordAnswer(outcome string) {
	o.metrics.RecordAnswer(o.service, outcome)
}

func (o workerObserver) RecordOCRPage() {
	o.metrics.RecordOCRPage(o.service)
}
