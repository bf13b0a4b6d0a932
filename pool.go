// pool.go - Only for internal buffer reuse
package isotag

import "sync"

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufferSize)
		return &buf
	},
}

func getBuffer() []byte {
	buf := bufferPool.Get().(*[]byte)
	return (*buf)[:0]
}

func putBuffer(buf []byte) {
	if cap(buf) <= 2*DefaultBufferSize { // Don't pool huge buffers
		b := buf[:0]
		bufferPool.Put(&b)
	}
}
