package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTankSnapshots forwards snapshots to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordTankSnapshots(snaps []TankSnapshot) error {
	for _, s := range m.Sinks {
		if err := s.RecordTankSnapshots(snaps); err != nil {
			return err
		}
	}
	return nil
}

// RecordOrderTransition forwards order transitions to sinks that record them.
func (m *MultiSink) RecordOrderTransition(ev OrderEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(OrderRecorder); ok {
			if err := rec.RecordOrderTransition(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDeliveryLink forwards link events to sinks that record them.
func (m *MultiSink) RecordDeliveryLink(ev LinkEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(LinkRecorder); ok {
			if err := rec.RecordDeliveryLink(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSeed forwards seed events to sinks that record them.
func (m *MultiSink) RecordSeed(ev SeedEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SeedRecorder); ok {
			if err := rec.RecordSeed(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
