package lt

// pendingBlock is a received block with at least one member not yet peeled.
type pendingBlock struct {
	members []int // unrecovered raw indices still combined in this block
	queued  bool
}

// peel removes raw index i from the block.
func (pb *pendingBlock) peel(i int) {
	for idx, m := range pb.members {
		if m == i {
			// pop by swapping with the last item
			l := len(pb.members)
			pb.members[idx] = pb.members[l-1]
			pb.members = pb.members[:l-1]
			return
		}
	}
	panic("unable to peel recovered index from block pointing to it")
}

// decoder is the peeling state of a rateless coder.
type decoder struct {
	k         int
	recovered []bool // recovered[i] iff i is in order
	order     []int  // recovered indices in recovery order
	// blocking[i] lists the pending blocks that still contain raw index i
	blocking   [][]*pendingBlock
	numPending int
}

func (d *decoder) reset(k int) {
	d.k = k
	if cap(d.recovered) >= k {
		d.recovered = d.recovered[:k]
	} else {
		d.recovered = make([]bool, k)
	}
	if cap(d.blocking) >= k {
		d.blocking = d.blocking[:k]
	} else {
		d.blocking = make([][]*pendingBlock, k)
	}
	d.Restart()
}

// Restart forgets every recovered and fed raw block and every pending block.
// The universe size is kept.
func (d *decoder) Restart() {
	for i := range d.recovered {
		d.recovered[i] = false
	}
	for i := range d.blocking {
		d.blocking[i] = nil
	}
	d.order = d.order[:0]
	d.numPending = 0
}

// Finished reports whether every raw block has been recovered.
func (d *decoder) Finished() bool {
	return len(d.order) == d.k
}

// Remaining is the number of raw blocks not yet recovered.
func (d *decoder) Remaining() int {
	return d.k - len(d.order)
}

// Pending is the number of received blocks that are not yet decodable.
func (d *decoder) Pending() int {
	return d.numPending
}

// Universe is the number of raw blocks the decoder works on.
func (d *decoder) Universe() int {
	return d.k
}

// Recovered returns the recovered raw indices in recovery order.
func (d *decoder) Recovered() []int {
	res := make([]int, len(d.order))
	copy(res, d.order)
	return res
}

// addBlock decodes a block with the given members, which must be in range.
func (d *decoder) addBlock(members []int) int {
	pb := &pendingBlock{}
	for _, m := range members {
		if !d.recovered[m] {
			pb.members = append(pb.members, m)
		}
	}
	if len(pb.members) <= 1 {
		pb.queued = true
		d.decodeBlocks([]*pendingBlock{pb})
	} else {
		for _, m := range pb.members {
			d.blocking[m] = append(d.blocking[m], pb)
		}
		d.numPending += 1
	}
	return d.Remaining()
}

// addKnown marks raw index i as recovered without a block resolving it.
func (d *decoder) addKnown(i int) {
	if d.recovered[i] {
		return
	}
	d.markRecovered(i)
	queue := d.markDecoded(i, nil)
	d.decodeBlocks(queue)
}

func (d *decoder) markRecovered(i int) {
	d.recovered[i] = true
	d.order = append(d.order, i)
}

// markDecoded peels the recovered raw index i from every pending block
// containing it, and appends the blocks that became decodable to queue.
func (d *decoder) markDecoded(i int, queue []*pendingBlock) []*pendingBlock {
	for idx, peelable := range d.blocking[i] {
		peelable.peel(i)
		if len(peelable.members) <= 1 && !peelable.queued {
			peelable.queued = true
			d.numPending -= 1
			queue = append(queue, peelable)
		}
		d.blocking[i][idx] = nil
	}
	d.blocking[i] = nil
	return queue
}

// decodeBlocks resolves the queued blocks, and any block they make
// decodable, until the queue drains.
func (d *decoder) decodeBlocks(queue []*pendingBlock) {
	for len(queue) > 0 {
		// pop the last item from the queue
		pb := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if !pb.queued {
			panic("decoding a block not queued")
		}
		if len(pb.members) == 0 {
			// nothing to do, already fully peeled
		} else if len(pb.members) == 1 {
			i := pb.members[0]
			if d.recovered[i] {
				panic("unpeeled index is already recovered")
			}
			d.markRecovered(i)
			queue = d.markDecoded(i, queue)
		} else {
			panic("queued undecodable block")
		}
		pb.members = pb.members[:0]
	}
}
