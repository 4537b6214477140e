// Package huffman allocates length restricted canonical Huffman code lengths in place.
//
// The allocator follows "In-place Length-Restricted Prefix Coding" by R. L. Milidiú,
// A. A. Pessoa and E. S. Laber: the sorted frequency array is folded into a tree of
// extended parent pointers, the number of internal nodes that must move to honour the
// length limit is found with a search over that tree, and the final pass writes code
// lengths back over the same slots.
package huffman

import "math/bits"

// first returns the smallest k such that nodesToMove <= k <= i and i <= arr[k] % len(arr).
func first(arr []int, i, nodesToMove int) int {
	length := len(arr)
	limit := i
	k := length - 2

	for i >= nodesToMove && arr[i]%length > limit {
		k = i
		i -= limit - i + 1
	}
	i = max(nodesToMove-1, i)

	for k > i+1 {
		temp := (i + k) >> 1
		if arr[temp]%length > limit {
			k = temp
		} else {
			i = temp
		}
	}
	return k
}

// setExtendedParentPointers replaces the frequencies with the parent pointers of an
// implicit Huffman tree. Pointers to internal nodes are offset by len(arr).
func setExtendedParentPointers(arr []int) {
	length := len(arr)
	arr[0] += arr[1]

	for headNode, tailNode, topNode := 0, 1, 2; tailNode < length-1; tailNode++ {
		var temp int
		if topNode >= length || arr[headNode] < arr[topNode] {
			temp = arr[headNode]
			arr[headNode] = tailNode
			headNode++
		} else {
			temp = arr[topNode]
			topNode++
		}

		if topNode >= length || (headNode < tailNode && arr[headNode] < arr[topNode]) {
			temp += arr[headNode]
			arr[headNode] = tailNode + length
			headNode++
		} else {
			temp += arr[topNode]
			topNode++
		}
		arr[tailNode] = temp
	}
}

func findNodesToRelocate(arr []int, maxLength int) int {
	currentNode := len(arr) - 2
	for currentDepth := 1; currentDepth < maxLength-1 && currentNode > 1; currentDepth++ {
		currentNode = first(arr, currentNode-1, 0)
	}
	return currentNode
}

func allocateNodeLengths(arr []int) {
	firstNode := len(arr) - 2
	nextNode := len(arr) - 1

	for currentDepth, availableNodes := 1, 2; availableNodes > 0; currentDepth++ {
		lastNode := firstNode
		firstNode = first(arr, lastNode-1, 0)

		for i := availableNodes - (lastNode - firstNode); i > 0; i-- {
			arr[nextNode] = currentDepth
			nextNode--
		}
		availableNodes = (lastNode - firstNode) << 1
	}
}

func allocateNodeLengthsWithRelocation(arr []int, nodesToMove, insertDepth int) {
	firstNode := len(arr) - 2
	nextNode := len(arr) - 1
	currentDepth := 1
	nodesLeftToMove := nodesToMove
	if insertDepth == 1 {
		currentDepth = 2
		nodesLeftToMove = nodesToMove - 2
	}

	for availableNodes := currentDepth << 1; availableNodes > 0; currentDepth++ {
		lastNode := firstNode
		if firstNode > nodesToMove {
			firstNode = first(arr, lastNode-1, nodesToMove)
		}

		offset := 0
		if currentDepth >= insertDepth {
			offset = min(nodesLeftToMove, 1<<(currentDepth-insertDepth))
		} else if currentDepth == insertDepth-1 {
			offset = 1
			if arr[firstNode] == lastNode {
				firstNode++
			}
		}

		for i := availableNodes - (lastNode - firstNode + offset); i > 0; i-- {
			arr[nextNode] = currentDepth
			nextNode--
		}

		nodesLeftToMove -= offset
		availableNodes = (lastNode - firstNode + offset) << 1
	}
}

// allocateFlat fills arr with the only shape a tree of exactly maxLength levels can take
// when maxLength == ceil(log2(len(arr))): the most frequent symbols one level up, the
// rest at maxLength.
func allocateFlat(arr []int, maxLength int) {
	shorter := 1<<maxLength - len(arr)
	for i := range arr {
		if i >= len(arr)-shorter {
			arr[i] = maxLength - 1
		} else {
			arr[i] = maxLength
		}
	}
}

// AllocateCodeLengths replaces the ascending frequencies in arr with canonical Huffman
// code lengths no longer than maxLength. maxLength must be at least ceil(log2(len(arr))).
func AllocateCodeLengths(arr []int, maxLength int) {
	switch len(arr) {
	case 0:
		return
	case 1:
		arr[0] = 1
		return
	case 2:
		arr[0], arr[1] = 1, 1
		return
	}

	setExtendedParentPointers(arr)

	nodesToRelocate := findNodesToRelocate(arr, maxLength)

	if arr[0]%len(arr) >= nodesToRelocate {
		allocateNodeLengths(arr)
		return
	}

	insertDepth := maxLength - bits.Len(uint(nodesToRelocate-1))
	if insertDepth < 1 {
		allocateFlat(arr, maxLength)
		return
	}
	allocateNodeLengthsWithRelocation(arr, nodesToRelocate, insertDepth)
}
