package interactive

import "testing"

func TestNewPipeQuadCreatesEightDistinctFiles(t *testing.T) {
	q, err := newPipeQuad()
	if err != nil {
		t.Fatalf("newPipeQuad: %v", err)
	}
	defer q.closeAll()

	fds := map[int]string{}
	add := func(name string, fd int) {
		if prev, ok := fds[fd]; ok {
			t.Errorf("fd %d reused by both %q and %q", fd, prev, name)
		}
		fds[fd] = name
	}
	add("programOut", int(q.programOut.Fd()))
	add("programOutWrite", int(q.programOutWrite.Fd()))
	add("interactorOut", int(q.interactorOut.Fd()))
	add("interactorOutWrite", int(q.interactorOutWrite.Fd()))
	add("programIn", int(q.programIn.Fd()))
	add("programInWrite", int(q.programInWrite.Fd()))
	add("interactorIn", int(q.interactorIn.Fd()))
	add("interactorInWrite", int(q.interactorInWrite.Fd()))

	if len(fds) != 8 {
		t.Errorf("got %d distinct fds, want 8", len(fds))
	}
}

func TestCloseAllToleratesNilFields(t *testing.T) {
	q := &pipeQuad{}
	q.closeAll() // must not panic on an all-nil quad
}
