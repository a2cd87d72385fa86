package globe

// Frame describes one render loop tick.
type Frame struct {
	Seq      uint64
	Distance float64
	Target   float64
	// Settled is true once the camera has reached its target distance.
	Settled bool
}

// Loop advances the camera once per tick. Scheduling belongs to the host.
type Loop struct {
	Smoothing float64

	camera *Camera
	seq    uint64
}

func NewLoop(cam *Camera, smoothing float64) *Loop {
	return &Loop{Smoothing: smoothing, camera: cam}
}

func (l *Loop) Tick() Frame {
	l.seq++
	d := l.camera.Step(l.Smoothing)
	return Frame{
		Seq:      l.seq,
		Distance: d,
		Target:   l.camera.TargetDistance(),
		Settled:  d == l.camera.TargetDistance(),
	}
}

func (l *Loop) Frames() uint64 { return l.seq }
