package digest

// winEntry records one k-mer held inside the large window
type winEntry struct {
	fhash uint64
	rhash uint64
	chash uint64
	hash  uint64 // the minimized hash, the value the scheme compares
	pos   int
}

// monoQueue is a fixed-capacity ring buffer deque holding the window k-mers in
// nondecreasing hash order
type monoQueue struct {
	buf  []winEntry
	head int
	size int
}

// newMonoQueue returns a deque with room for n entries
func newMonoQueue(n int) *monoQueue {
	return &monoQueue{buf: make([]winEntry, n)}
}

func (q *monoQueue) front() winEntry {
	return q.buf[q.head]
}

func (q *monoQueue) back() winEntry {
	return q.buf[(q.head+q.size-1)%len(q.buf)]
}

func (q *monoQueue) pushBack(e winEntry) {
	q.buf[(q.head+q.size)%len(q.buf)] = e
	q.size++
}

func (q *monoQueue) popFront() {
	q.head = (q.head + 1) % len(q.buf)
	q.size--
}

func (q *monoQueue) popBack() {
	q.size--
}

func (q *monoQueue) clear() {
	q.head = 0
	q.size = 0
}

func (q *monoQueue) copy() *monoQueue {
	nq := *q
	nq.buf = append(make([]winEntry, 0, len(q.buf)), q.buf...)
	return &nq
}

// scanState is the part of the digester state that an emission displaces
type scanState struct {
	pos       int
	fhash     uint64
	rhash     uint64
	chash     uint64
	validHash bool
}

// windowed carries the bookkeeping shared by the WindowMin and Syncmer schemes: a monotone
// deque over the last windowSize k-mer arrivals. Reporting a minimizer seats the digester on
// the chosen k-mer, which may trail the scanning window, so the scanning cursor is stashed
// and restored before rolling continues.
type windowed struct {
	Digester
	windowSize   int // number of k-mers in the large window
	queue        *monoQueue
	count        int // k-mers ingested since the window was last reset
	lastIngested int
	lastEmitted  int
	scan         scanState
	scanSaved    bool
}

// newWindowed seats a digester and wraps it with the large-window bookkeeping
func newWindowed(seq []byte, k uint, pos int, minimizedHash uint, windowSize uint) (windowed, error) {
	if windowSize == 0 {
		return windowed{}, ErrBadConstruction
	}
	d, err := NewDigester(seq, k, pos, minimizedHash)
	if err != nil {
		return windowed{}, err
	}
	return windowed{
		Digester:     *d,
		windowSize:   int(windowSize),
		queue:        newMonoQueue(int(windowSize) + 1),
		lastIngested: -1,
		lastEmitted:  -1,
	}, nil
}

// GetWindowSize returns the number of k-mers in the large window
func (w *windowed) GetWindowSize() uint {
	return uint(w.windowSize)
}

// ingest admits the seated k-mer into the monotone deque. A jump in k-mer positions means
// the window ran over unhashable bases, which nothing may span, so the accounting restarts.
func (w *windowed) ingest() {
	if w.pos != w.lastIngested+1 {
		w.queue.clear()
		w.count = 0
	}
	e := winEntry{fhash: w.fhash, rhash: w.rhash, chash: w.chash, hash: w.SelectedHash(), pos: w.pos}
	for w.queue.size > 0 && w.queue.back().hash > e.hash {
		w.queue.popBack()
	}
	w.queue.pushBack(e)
	for w.queue.front().pos+w.windowSize <= w.pos {
		w.queue.popFront()
	}
	w.lastIngested = w.pos
	w.count++
}

// emit stashes the scanning cursor and seats the digester on the chosen k-mer
func (w *windowed) emit(e winEntry) {
	w.scan = scanState{pos: w.pos, fhash: w.fhash, rhash: w.rhash, chash: w.chash, validHash: w.validHash}
	w.scanSaved = true
	w.pos = e.pos
	w.fhash, w.rhash, w.chash = e.fhash, e.rhash, e.chash
	w.validHash = true
	w.lastEmitted = e.pos
}

// restoreScan puts the scanning cursor back after an emission
func (w *windowed) restoreScan() {
	if !w.scanSaved {
		return
	}
	w.pos = w.scan.pos
	w.fhash, w.rhash, w.chash = w.scan.fhash, w.scan.rhash, w.scan.chash
	w.validHash = w.scan.validHash
	w.scanSaved = false
}

// RollOne advances the scanning window by one base, putting the scanning cursor back first
// if a reported minimizer is seated
func (w *windowed) RollOne() bool {
	w.restoreScan()
	return w.Digester.RollOne()
}

// NewSeq re-homes the selector onto a fresh sequence and forgets the window history
func (w *windowed) NewSeq(seq []byte, pos int) error {
	if err := w.Digester.NewSeq(seq, pos); err != nil {
		return err
	}
	w.queue.clear()
	w.count = 0
	w.lastIngested = -1
	w.lastEmitted = -1
	w.scanSaved = false
	return nil
}

// AppendSeq logically concatenates another chunk onto the digested stream. The window
// history survives the join.
func (w *windowed) AppendSeq(seq []byte) error {
	w.restoreScan()
	return w.Digester.AppendSeq(seq)
}

// GetKmer reconstructs the bases under the scanning window. After an emission the reported
// k-mer may trail the scanner and its bases can be gone, in which case nil is returned.
func (w *windowed) GetKmer() []byte {
	if w.scanSaved {
		return nil
	}
	return w.Digester.GetKmer()
}

// copy deeply duplicates the window bookkeeping
func (w *windowed) copy() windowed {
	nw := *w
	nw.Digester = *w.Digester.Copy()
	nw.queue = w.queue.copy()
	return nw
}

// WindowMin reports the lowest-hashing k-mer of every window of windowSize consecutive
// k-mers, deduplicated: a window whose minimum is the k-mer already reported is skipped.
// Ties inside a window go to the leftmost k-mer.
type WindowMin struct {
	windowed
}

// NewWindowMin returns a windowed minimizer scheme over the given sequence. The window must
// hold at least one k-mer; a window of 1 reports every hashable k-mer.
func NewWindowMin(seq []byte, k uint, pos int, minimizedHash uint, windowSize uint) (*WindowMin, error) {
	w, err := newWindowed(seq, k, pos, minimizedHash, windowSize)
	if err != nil {
		return nil, err
	}
	return &WindowMin{w}, nil
}

// RollNextMinimizer rolls the window forward until it holds a minimum that has not been
// reported yet, then seats the digester on it. Reports false once the stream is exhausted.
func (wm *WindowMin) RollNextMinimizer() bool {
	wm.restoreScan()
	for {
		if wm.validHash && wm.pos != wm.lastIngested {
			wm.ingest()
		}
		if wm.count >= wm.windowSize {
			front := wm.queue.front()
			if front.pos != wm.lastEmitted {
				wm.emit(front)
				return true
			}
		}
		if !wm.RollOne() {
			return false
		}
	}
}

// Copy returns an independent selector that will continue from the same point
func (wm *WindowMin) Copy() *WindowMin {
	return &WindowMin{wm.windowed.copy()}
}
