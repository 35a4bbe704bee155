package config

type WorkerKeyStruct struct {
	PersistGradesQueue   string
	PersistAttemptsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistGradesQueue:   "persist_grades_queue",
	PersistAttemptsQueue: "persist_attempts_queue",
}
