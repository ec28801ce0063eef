package vector

import "github.com/hupe1980/sparsekit"

// CompareFunc is a three-way comparator: negative when a orders before b,
// zero when equal, positive when a orders after b.
type CompareFunc[T any] func(a, b T) int

// InsertionSort sorts the vector in place. Stable; O(n^2) worst and average
// case, O(n) on already-sorted input. The usual choice for small or nearly
// sorted vectors.
func (v *Vector[T]) InsertionSort(cmp CompareFunc[T]) error {
	if cmp == nil {
		v.logger.WithOp("insertion_sort").Warn("nil comparator")
		return sparsekit.ErrInvalidArguments
	}

	for i := 1; i < v.length; i++ {
		cur := v.data[i]
		j := i - 1
		for j >= 0 && cmp(v.data[j], cur) > 0 {
			v.data[j+1] = v.data[j]
			j--
		}
		v.data[j+1] = cur
	}
	return nil
}

// BubbleSort sorts the vector in place. O(n^2); a pass with no swaps ends
// the sort early.
func (v *Vector[T]) BubbleSort(cmp CompareFunc[T]) error {
	if cmp == nil {
		v.logger.WithOp("bubble_sort").Warn("nil comparator")
		return sparsekit.ErrInvalidArguments
	}

	for end := v.length; end > 1; end-- {
		swapped := false
		for i := 1; i < end; i++ {
			if cmp(v.data[i-1], v.data[i]) > 0 {
				v.data[i-1], v.data[i] = v.data[i], v.data[i-1]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return nil
}

// MergeSort sorts the vector in place using a temporary buffer of the same
// length. Stable; O(n log n).
func (v *Vector[T]) MergeSort(cmp CompareFunc[T]) error {
	if cmp == nil {
		v.logger.WithOp("merge_sort").Warn("nil comparator")
		return sparsekit.ErrInvalidArguments
	}
	if v.length < 2 {
		return nil
	}

	aux := make([]T, v.length)
	v.mergeSort(aux, 0, v.length, cmp)
	return nil
}

// mergeSort sorts data[lo:hi). Elements move by raw assignment only; all
// values stay owned by the vector throughout.
func (v *Vector[T]) mergeSort(aux []T, lo, hi int, cmp CompareFunc[T]) {
	if hi-lo < 2 {
		return
	}

	mid := lo + (hi-lo)/2
	v.mergeSort(aux, lo, mid, cmp)
	v.mergeSort(aux, mid, hi, cmp)

	copy(aux[lo:hi], v.data[lo:hi])
	i, j := lo, mid
	for k := lo; k < hi; k++ {
		switch {
		case i >= mid:
			v.data[k] = aux[j]
			j++
		case j >= hi:
			v.data[k] = aux[i]
			i++
		case cmp(aux[j], aux[i]) < 0:
			v.data[k] = aux[j]
			j++
		default:
			v.data[k] = aux[i]
			i++
		}
	}
}

// CheckSorted reports whether no adjacent pair is inverted under cmp, i.e.
// cmp(data[i], data[i+1]) > 0 never holds. The ordering convention itself is
// the comparator's.
func (v *Vector[T]) CheckSorted(cmp CompareFunc[T]) bool {
	if cmp == nil {
		return false
	}
	for i := 1; i < v.length; i++ {
		if cmp(v.data[i-1], v.data[i]) > 0 {
			return false
		}
	}
	return true
}
