package d3d11

var InputLayoutError = inputLayoutError
