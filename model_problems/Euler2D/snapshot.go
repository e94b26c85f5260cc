package Euler2D

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/fdweno/FD2D"
)

/*
SnapshotWriter saves the primitive solution of one tile as a Tecplot ASCII
point file. Every rank writes its own file per snapshot, named by snapshot
index and rank. The zone holds the owned cells plus one overlap column and row
taken from the halo, so that tiles join without gaps.
*/
type SnapshotWriter struct {
	Dir   string
	Title string
	FS    *FreeStream
	Count int // Index of the next snapshot
}

func NewSnapshotWriter(dir, title string, fs *FreeStream) (sw *SnapshotWriter) {
	sw = &SnapshotWriter{
		Dir:   dir,
		Title: title,
		FS:    fs,
	}
	return
}

func SnapshotFileName(index, rank int) string {
	return fmt.Sprintf("sol-%03d-%03d.plt", index, rank)
}

// Write is collective, the halo of Q is refreshed before the overlap is written
func (sw *SnapshotWriter) Write(comm FD2D.Communicator, Q FD2D.Field, time float64) (fileName string, err error) {
	var (
		t = comm.Tile()
		g = t.Grid
	)
	if err = comm.Exchange(Q); err != nil {
		return
	}
	fileName = filepath.Join(sw.Dir, SnapshotFileName(sw.Count, comm.Rank()))
	sw.Count++
	var (
		iEnd = min(t.IBeg+t.NLocX+1, g.NX)
		jEnd = min(t.JBeg+t.NLocY+1, g.NY)
		ni   = iEnd - t.IBeg
		nj   = jEnd - t.JBeg
		file *os.File
	)
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "TITLE = \"%s\"\n", sw.Title)
	fmt.Fprintf(w, "VARIABLES = x, y, rho, u, v, p\n")
	fmt.Fprintf(w, "ZONE STRANDID=1, SOLUTIONTIME=%e, I=%d, J=%d, DATAPACKING=POINT\n", time, ni, nj)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			x, y := t.CellCenter(i, j)
			P := sw.FS.ToPrimitive(Q.Get(t.Ind(i, j)))
			fmt.Fprintf(w, "%e %e %e %e %e %e\n", x, y, P[0], P[1], P[2], P[3])
		}
	}
	err = w.Flush()
	return
}
