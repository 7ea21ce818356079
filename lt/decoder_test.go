package lt

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func TestPeel(t *testing.T) {
	pb := &pendingBlock{members: []int{1, 2, 3}}
	pb.peel(2)
	if len(pb.members) != 2 || pb.members[0] != 1 || pb.members[1] != 3 {
		t.Error("incorrect members after peeling", pb.members)
	}
	pb.peel(1)
	pb.peel(3)
	if len(pb.members) != 0 {
		t.Error("incorrect members after peeling", pb.members)
	}
}

func TestDecodeBlocks(t *testing.T) {
	c := NewRatelessCoder(rand.New(rand.NewSource(0)), nil)
	if err := c.SetUniverse(6); err != nil {
		t.Fatal(err)
	}
	// create the following blocks:
	// b0 = r0 + r1
	// b1 = r1 + r2 + r3
	// b2 = r1 + r3
	// b3 = r0
	// b4 = r0 + r4 + r5
	decode := func(members ...int) int {
		left, err := c.Decode(NewRatelessBlock(members...))
		if err != nil {
			t.Fatal(err)
		}
		return left
	}
	if decode(0, 1) != 6 || decode(1, 2, 3) != 6 || decode(1, 3) != 6 {
		t.Error("recovered raw blocks without any degree-1 block")
	}
	if c.Pending() != 3 {
		t.Error("incorrect number of pending blocks", c.Pending())
	}
	if decode(0) != 2 {
		t.Error("incorrect number of raw blocks left after peeling")
	}
	if c.Pending() != 0 {
		t.Error("pending blocks left after peeling", c.Pending())
	}
	expected := []int{0, 1, 3, 2}
	rec := c.Recovered()
	if len(rec) != len(expected) {
		t.Fatal("incorrect recovery sequence", rec)
	}
	for i := range expected {
		if rec[i] != expected[i] {
			t.Error("incorrect recovery sequence", rec)
			break
		}
	}
	if decode(0, 4, 5) != 2 || c.Pending() != 1 {
		t.Error("block with two unknown raw blocks not kept pending")
	}
	if err := c.Feed(4); err != nil {
		t.Fatal(err)
	}
	if !c.Finished() || c.Remaining() != 0 || c.Pending() != 0 {
		t.Error("feeding did not propagate through the pending block")
	}
}

func TestDecodeMonotoneAndReplay(t *testing.T) {
	c := NewLubyCoder(rand.New(rand.NewSource(7)))
	blocks, err := c.Encode(40, 80)
	if err != nil {
		t.Fatal(err)
	}
	// deliver in a different order than generated
	rand.New(rand.NewSource(8)).Shuffle(len(blocks), func(i, j int) {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	})
	run := func() ([]int, []int) {
		c.Restart()
		lefts := []int{}
		for _, b := range blocks {
			left, err := c.Decode(b)
			if err != nil {
				t.Fatal(err)
			}
			lefts = append(lefts, left)
		}
		return lefts, c.Recovered()
	}
	first, firstOrder := run()
	for i := 1; i < len(first); i++ {
		if first[i] > first[i-1] {
			t.Fatalf("remaining count increased from %d to %d", first[i-1], first[i])
		}
	}
	if first[len(first)-1] != 0 {
		t.Error("not decoded after all blocks in a different order")
	}
	second, secondOrder := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("replay after restart gave a different remaining count sequence")
		}
	}
	for i := range firstOrder {
		if firstOrder[i] != secondOrder[i] {
			t.Fatal("replay after restart gave a different recovery sequence")
		}
	}
}

func TestFeed(t *testing.T) {
	c := NewRatelessCoder(rand.New(rand.NewSource(0)), nil)
	if err := c.SetUniverse(5); err != nil {
		t.Fatal(err)
	}
	if err := c.Feed(3); err != nil {
		t.Fatal(err)
	}
	if c.Remaining() != 4 {
		t.Error("feeding did not reduce the remaining count")
	}
	if err := c.Feed(3); err != nil {
		t.Fatal(err)
	}
	if c.Remaining() != 4 {
		t.Error("feeding twice is not idempotent")
	}
	left, err := c.Decode(NewRatelessBlock(3))
	if err != nil {
		t.Fatal(err)
	}
	if left != 4 {
		t.Error("decoding a fed raw block changed the remaining count")
	}
	// restart forgets fed raw blocks
	c.Restart()
	if c.Remaining() != 5 || len(c.Recovered()) != 0 {
		t.Error("restart kept fed raw blocks")
	}
	if err := c.Feed(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("expecting ErrIndexOutOfRange, got", err)
	}
	if err := c.Feed(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("expecting ErrIndexOutOfRange, got", err)
	}
}

func TestFeedThenDecodeAll(t *testing.T) {
	c := NewRatelessCoder(rand.New(rand.NewSource(11)), NewUniformGenerator(rand.New(rand.NewSource(12))))
	blocks, err := c.Encode(5, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Feed(2); err != nil {
		t.Fatal(err)
	}
	left := c.Remaining()
	for _, b := range blocks {
		left, err = c.Decode(b)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !c.Finished() || left != 0 {
		t.Error("not decoded after feeding and all blocks")
	}
	n := 0
	for _, i := range c.Recovered() {
		if i == 2 {
			n += 1
		}
	}
	if n != 1 {
		t.Errorf("fed raw block appears %d times in the recovery sequence", n)
	}
}

func TestDecodeErrors(t *testing.T) {
	c := NewRatelessCoder(rand.New(rand.NewSource(0)), nil)
	if _, err := c.Decode(NewRatelessBlock(0)); !errors.Is(err, ErrNoUniverse) {
		t.Error("expecting ErrNoUniverse, got", err)
	}
	if err := c.Feed(0); !errors.Is(err, ErrNoUniverse) {
		t.Error("expecting ErrNoUniverse, got", err)
	}
	if err := c.SetUniverse(0); !errors.Is(err, ErrInvalidUniverse) {
		t.Error("expecting ErrInvalidUniverse, got", err)
	}
	if err := c.SetUniverse(4); err != nil {
		t.Fatal(err)
	}
	if err := c.Feed(1); err != nil {
		t.Fatal(err)
	}
	left, err := c.Decode(NewMinBlock())
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("expecting ErrTypeMismatch, got", err)
	}
	if left != 3 {
		t.Error("mismatched block changed the remaining count")
	}
	if _, err := c.Decode(CodedBlock{}); !errors.Is(err, ErrTypeMismatch) {
		t.Error("expecting ErrTypeMismatch for zero block, got", err)
	}
	if _, err := c.Decode(NewRatelessBlock(0, 4)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("expecting ErrIndexOutOfRange, got", err)
	}
	if c.Remaining() != 3 || c.Pending() != 0 {
		t.Error("rejected block changed the decoder state")
	}
}

func TestDecodeElsewhere(t *testing.T) {
	enc := NewLubyCoder(rand.New(rand.NewSource(4)))
	blocks, err := enc.Encode(30, 60)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewLubyCoder(rand.New(rand.NewSource(5)))
	if err := dec.SetUniverse(30); err != nil {
		t.Fatal(err)
	}
	for _, b := range blocks {
		if _, err := dec.Decode(b); err != nil {
			t.Fatal(err)
		}
	}
	if !dec.Finished() {
		t.Error("separate decoder did not finish")
	}
	if dec.Universe() != 30 {
		t.Error("incorrect universe", dec.Universe())
	}
}

func BenchmarkDecode(b *testing.B) {
	ks := []int{10, 50, 100}
	genrun := func(k int) func(b *testing.B) {
		return func(b *testing.B) {
			c := NewLubyCoder(rand.New(rand.NewSource(0)))
			blocks, err := c.Encode(k, 2*k)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Restart()
				for _, blk := range blocks {
					if left, _ := c.Decode(blk); left == 0 {
						break
					}
				}
			}
		}
	}
	for _, k := range ks {
		b.Run(fmt.Sprintf("k=%d", k), genrun(k))
	}
}
