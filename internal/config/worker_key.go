package config

type WorkerKeyStruct struct {
	ExportJobsQueue          string
	SubmitRegistrationsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ExportJobsQueue:          "export_jobs_queue",
	SubmitRegistrationsQueue: "submit_registrations_queue",
}
