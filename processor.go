package filelog

type requestKind int

const (
	requestFlush requestKind = iota
	requestClear
)

// request is served by the processor after draining the queue
type request struct {
	kind requestKind
	done chan struct{}
}

// processLogs is the single writer loop running in its own goroutine
func (l *Logger) processLogs() {
	defer close(l.exited)
	defer l.state.ProcessorExited.Store(true)

	for {
		select {
		case <-l.signal:
			l.drainQueue()

		case req := <-l.requests:
			l.drainQueue()
			l.handleRequest(req)

		case <-l.done:
			l.drainQueue()
			return
		}
	}
}

// drainQueue writes records until the queue is observed empty
func (l *Logger) drainQueue() {
	for {
		record, ok := l.queue.pop()
		if !ok {
			return
		}
		l.processLogRecord(record)
	}
}

func (l *Logger) handleRequest(req request) {
	switch req.kind {
	case requestClear:
		l.clearLogFiles()
	case requestFlush:
		// Appends are unbuffered, the drain preceding this call is the flush
	}
	close(req.done)
}

// processLogRecord formats, rotates when needed, and appends one record.
// A failed size query or append drops the record and the loop continues.
func (l *Logger) processLogRecord(record logRecord) {
	data := l.formatter.Format(record.TimeStamp, LevelToString(record.Level),
		record.Message, record.Args, record.Stack)

	path := l.activePath()
	size, err := l.store.Size(path)
	if err != nil {
		l.state.DroppedLogs.Add(1)
		l.internalLog("failed to query size of log file '%s': %w", path, err)
		return
	}

	// An empty file always takes the entry, an oversized entry gets a file of its own
	if size > 0 && size+int64(len(data)) > l.cfg.MaxFileSize {
		l.rotateLogFile()
		path = l.activePath()
	}

	if err := l.store.Append(path, data); err != nil {
		l.state.DroppedLogs.Add(1)
		l.internalLog("failed to write log entry to '%s': %w", path, err)
		return
	}
	l.state.TotalLogsProcessed.Add(1)
}
