package maths

import (
	"fmt"
	"sort"
	"strings"
)

// denseMatrix 稠密矩阵实现（全量存储所有元素，行优先）
type denseMatrix struct {
	*DataManager
	rows, cols int
}

// NewDenseMatrix 创建指定维度的空稠密矩阵
func NewDenseMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	return &denseMatrix{
		DataManager: NewDataManager(rows * cols),
		rows:        rows,
		cols:        cols,
	}
}

func (m *denseMatrix) checkIndex(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
}

// BuildFromDense 从稠密矩阵构建（覆盖原有数据）
func (m *denseMatrix) BuildFromDense(dense [][]float64) {
	if len(dense) != m.rows {
		panic(fmt.Sprintf("dense matrix dimension mismatch: expected %d rows, got %d", m.rows, len(dense)))
	}
	for i, row := range dense {
		if len(row) != m.cols {
			panic(fmt.Sprintf("dense matrix dimension mismatch: expected %d cols, got %d", m.cols, len(row)))
		}
		copy(m.data[i*m.cols:(i+1)*m.cols], row)
	}
}

// Rows 返回矩阵行数
func (m *denseMatrix) Rows() int {
	return m.rows
}

// Cols 返回矩阵列数
func (m *denseMatrix) Cols() int {
	return m.cols
}

// Copy 复制自身数据到目标矩阵（支持稠密/稀疏等类型）
func (m *denseMatrix) Copy(a Matrix) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	switch target := a.(type) {
	case *denseMatrix:
		m.DataManager.Copy(target.DataManager)
	default:
		target.Zero()
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				if val := m.data[i*m.cols+j]; val != 0 {
					target.Set(i, j, val)
				}
			}
		}
	}
}

// Get 获取指定行列元素值（越界panic）
func (m *denseMatrix) Get(row int, col int) float64 {
	m.checkIndex(row, col)
	return m.data[row*m.cols+col]
}

// Set 设置指定行列元素值（越界panic）
func (m *denseMatrix) Set(row int, col int, value float64) {
	m.checkIndex(row, col)
	m.data[row*m.cols+col] = value
}

// Increment 增量更新矩阵元素（value累加，越界panic）
func (m *denseMatrix) Increment(row int, col int, value float64) {
	m.checkIndex(row, col)
	m.data[row*m.cols+col] += value
}

// GetRow 获取指定行的非零元素（返回：列索引切片+值向量）
func (m *denseMatrix) GetRow(row int) ([]int, Vector) {
	if row < 0 || row >= m.rows {
		panic(fmt.Sprintf("row index out of range: %d (rows: %d)", row, m.rows))
	}
	cols := make([]int, 0, m.cols)
	values := make([]float64, 0, m.cols)
	for j, v := range m.data[row*m.cols : (row+1)*m.cols] {
		if v != 0 {
			cols = append(cols, j)
			values = append(values, v)
		}
	}
	return cols, NewDenseVectorWithData(values)
}

// IsSquare 判断是否为方阵
func (m *denseMatrix) IsSquare() bool {
	return m.rows == m.cols
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，返回新向量）
func (m *denseMatrix) MatrixVectorMultiply(x Vector) Vector {
	result := NewDenseVector(m.rows)
	m.MulVecTo(x, result)
	return result
}

// MulVecTo 矩阵向量乘法（dst = A*x）
func (m *denseMatrix) MulVecTo(x, dst Vector) {
	if x.Length() != m.cols || dst.Length() != m.rows {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, dst length=%d, matrix %dx%d", x.Length(), dst.Length(), m.rows, m.cols))
	}
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, v := range row {
			sum += v * x.Get(j)
		}
		dst.Set(i, sum)
	}
}

// SwapRows 交换两行
func (m *denseMatrix) SwapRows(row1, row2 int) {
	if row1 == row2 {
		return
	}
	r1 := m.data[row1*m.cols : (row1+1)*m.cols]
	r2 := m.data[row2*m.cols : (row2+1)*m.cols]
	for j := range r1 {
		r1[j], r2[j] = r2[j], r1[j]
	}
}

// String 格式化输出矩阵
func (m *denseMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			fmt.Fprintf(&sb, "%8.4f ", m.data[i*m.cols+j])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToDense 转换为稠密向量（行优先展开）
func (m *denseMatrix) ToDense() Vector {
	return NewDenseVectorWithData(m.DataCopy())
}

// sparseMatrix 稀疏矩阵实现（CSR格式：Compressed Sparse Row）
// 仅存储非零元素，适合有限元全局刚度矩阵
type sparseMatrix struct {
	values     *DataManager // 非零元素值：与colInd一一对应
	rows, cols int          // 矩阵维度
	rowPtr     []int        // 行指针：rowPtr[i] = 第i行非零元素在colInd/values中的起始索引
	colInd     []int        // 列索引：存储非零元素的列号
}

// NewSparseMatrix 创建指定维度的空稀疏矩阵
func NewSparseMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	return &sparseMatrix{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1), // rowPtr[rows] = 非零元素总数
		colInd: make([]int, 0),
		values: NewDataManager(0),
	}
}

// find 二分查找列索引在当前行的位置
func (m *sparseMatrix) find(row, col int) (pos int, found bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
	start := m.rowPtr[row]
	end := m.rowPtr[row+1]
	pos = sort.Search(end-start, func(i int) bool {
		return m.colInd[start+i] >= col
	}) + start
	return pos, pos < end && m.colInd[pos] == col
}

// Set 设置矩阵元素值（非零则插入/更新，零则删除）
func (m *sparseMatrix) Set(row, col int, value float64) {
	pos, found := m.find(row, col)
	switch {
	case found && !isZero(value):
		m.values.Set(pos, value)
	case found:
		m.deleteElement(row, pos)
	case !isZero(value):
		m.insertElement(row, col, value, pos)
	}
}

// Increment 增量更新矩阵元素
func (m *sparseMatrix) Increment(row, col int, value float64) {
	pos, found := m.find(row, col)
	if found {
		newVal := m.values.Get(pos) + value
		if isZero(newVal) {
			m.deleteElement(row, pos)
		} else {
			m.values.Set(pos, newVal)
		}
	} else if !isZero(value) {
		m.insertElement(row, col, value, pos)
	}
}

// Get 获取矩阵元素值（非零返回值，零返回0）
func (m *sparseMatrix) Get(row, col int) float64 {
	if pos, found := m.find(row, col); found {
		return m.values.Get(pos)
	}
	return 0.0
}

// deleteElement 删除指定位置的非零元素
func (m *sparseMatrix) deleteElement(row, pos int) {
	m.colInd = append(m.colInd[:pos], m.colInd[pos+1:]...)
	m.values.Remove(pos, 1)
	for i := row + 1; i <= m.rows; i++ {
		m.rowPtr[i]--
	}
}

// insertElement 在指定位置插入非零元素
func (m *sparseMatrix) insertElement(row, col int, value float64, pos int) {
	m.colInd = append(m.colInd, 0)
	copy(m.colInd[pos+1:], m.colInd[pos:])
	m.colInd[pos] = col
	m.values.Insert(pos, value)
	for i := row + 1; i <= m.rows; i++ {
		m.rowPtr[i]++
	}
}

// Rows 返回矩阵行数
func (m *sparseMatrix) Rows() int {
	return m.rows
}

// Cols 返回矩阵列数
func (m *sparseMatrix) Cols() int {
	return m.cols
}

// String 格式化输出矩阵（零元素也显示）
func (m *sparseMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		colPtr := m.rowPtr[i]
		for j := 0; j < m.cols; j++ {
			if colPtr < m.rowPtr[i+1] && m.colInd[colPtr] == j {
				fmt.Fprintf(&sb, "%8.4f ", m.values.Get(colPtr))
				colPtr++
			} else {
				fmt.Fprintf(&sb, "%8.4f ", 0.0)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NonZeroCount 统计非零元素数量
func (m *sparseMatrix) NonZeroCount() int {
	return m.values.Length()
}

// Copy 复制自身数据到目标矩阵（支持稀疏/稠密等类型）
func (m *sparseMatrix) Copy(a Matrix) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	switch target := a.(type) {
	case *sparseMatrix:
		copy(target.rowPtr, m.rowPtr)
		target.colInd = append(target.colInd[:0], m.colInd...)
		target.values = NewDataManagerWithData(m.values.DataCopy())
	default:
		target.Zero()
		for i := 0; i < m.rows; i++ {
			for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
				target.Set(i, m.colInd[j], m.values.Get(j))
			}
		}
	}
}

// IsSquare 判断是否为方阵
func (m *sparseMatrix) IsSquare() bool {
	return m.rows == m.cols
}

// BuildFromDense 从稠密矩阵构建稀疏矩阵（仅保留非零元素）
func (m *sparseMatrix) BuildFromDense(dense [][]float64) {
	if len(dense) != m.rows {
		panic(fmt.Sprintf("dense matrix dimension mismatch: expected %d rows, got %d", m.rows, len(dense)))
	}
	m.colInd = m.colInd[:0]
	m.values.Resize(0)
	count := 0
	for i := 0; i < m.rows; i++ {
		if len(dense[i]) != m.cols {
			panic(fmt.Sprintf("dense matrix dimension mismatch: expected %d cols, got %d", m.cols, len(dense[i])))
		}
		m.rowPtr[i] = count
		for j, val := range dense[i] {
			if !isZero(val) {
				m.colInd = append(m.colInd, j)
				m.values.Append(val)
				count++
			}
		}
	}
	m.rowPtr[m.rows] = count
}

// GetRow 获取指定行的非零元素（返回：列索引切片+值向量）
func (m *sparseMatrix) GetRow(row int) ([]int, Vector) {
	if row < 0 || row >= m.rows {
		panic(fmt.Sprintf("row index out of range: %d (rows: %d)", row, m.rows))
	}
	start := m.rowPtr[row]
	end := m.rowPtr[row+1]
	cols := make([]int, end-start)
	copy(cols, m.colInd[start:end])
	values := make([]float64, end-start)
	copy(values, m.values.Data()[start:end])
	return cols, NewDenseVectorWithData(values)
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，仅遍历非零元素）
func (m *sparseMatrix) MatrixVectorMultiply(x Vector) Vector {
	result := NewDenseVector(m.rows)
	m.MulVecTo(x, result)
	return result
}

// MulVecTo 矩阵向量乘法（dst = A*x）
func (m *sparseMatrix) MulVecTo(x, dst Vector) {
	if x.Length() != m.cols || dst.Length() != m.rows {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, dst length=%d, matrix %dx%d", x.Length(), dst.Length(), m.rows, m.cols))
	}
	vals := m.values.Data()
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			sum += vals[j] * x.Get(m.colInd[j])
		}
		dst.Set(i, sum)
	}
}

// SwapRows 交换两行（重建两行之间的存储区间）
func (m *sparseMatrix) SwapRows(row1, row2 int) {
	if row1 == row2 {
		return
	}
	if row1 > row2 {
		row1, row2 = row2, row1
	}
	c1, v1 := m.GetRow(row1)
	c2, v2 := m.GetRow(row2)
	for _, c := range c1 {
		m.Set(row1, c, 0)
	}
	for _, c := range c2 {
		m.Set(row2, c, 0)
	}
	for k, c := range c2 {
		m.Set(row1, c, v2.Get(k))
	}
	for k, c := range c1 {
		m.Set(row2, c, v1.Get(k))
	}
}

// Zero 清空矩阵为零矩阵
func (m *sparseMatrix) Zero() {
	m.colInd = m.colInd[:0]
	m.values.Resize(0)
	clear(m.rowPtr)
}

// ToDense 转换为稠密向量（行优先展开）
func (m *sparseMatrix) ToDense() Vector {
	dense := make([]float64, m.rows*m.cols)
	for i := 0; i < m.rows; i++ {
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			dense[i*m.cols+m.colInd[j]] = m.values.Get(j)
		}
	}
	return NewDenseVectorWithData(dense)
}
