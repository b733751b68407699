package progress

// Event is a single progress notification emitted by the pipeline
type Event interface {
	String() string
}

// Observer receives progress events of an import run
type Observer interface {
	Notify(evt Event)
}

// ObserverChain allows fanning out one event stream to multiple
// observers
type ObserverChain struct {
	observers []Observer
}

func (chain *ObserverChain) Join(observer Observer) {
	chain.observers = append(chain.observers, observer)
}

func (chain *ObserverChain) Notify(evt Event) {
	for _, observer := range chain.observers {
		observer.Notify(evt)
	}
}
