package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuMesh struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount int
	topology   model.Topology
}

func (m *wgpuMesh) release() {
	m.vertex.Release()
	m.index.Release()
}

// drawSlot is the uniform buffer and bind group of one draw position within a frame.
// Slots persist across frames so a steady scene allocates nothing per frame.
type drawSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type wgpuPipeline struct {
	pipeline *wgpu.RenderPipeline
	topology model.Topology
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipelines       map[string]wgpuPipeline
	meshes          map[string]*wgpuMesh
	slots           []*drawSlot

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: toWGPUPresentMode(mode),
		sampleCount: sampleCount,
		pipelines:   make(map[string]wgpuPipeline),
		meshes:      make(map[string]*wgpuMesh),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.surface.Release()
		w.instance.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		a.Release()
		w.surface.Release()
		w.instance.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func toWGPUPresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		return wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) Init(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.configureSurface(width, height); err != nil {
		return err
	}

	// Every material reads the same DrawUniforms block at group 0, binding 0.
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Uniforms Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: material.GPUUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}
	b.bindGroupLayout = layout

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Draw Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frameSurface != nil {
		return ErrFrameInProgress
	}
	return b.configureSurface(width, height)
}

// configureSurface (re)configures the swapchain and rebuilds the MSAA and depth targets.
// Caller must hold the lock.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return fmt.Errorf("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}

	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create msaa texture: %w", err)
		}
		b.msaaTexture = tex
		if b.msaaTextureView, err = tex.CreateView(nil); err != nil {
			return fmt.Errorf("failed to create msaa view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depth
	if b.depthTextureView, err = depth.CreateView(nil); err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) CreateMaterial(m material.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipelineLayout == nil {
		return ErrNotInitialized
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: m.Name(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: m.Source(),
		},
	})
	if err != nil {
		return &material.ShaderError{Material: m.Name(), Stage: material.StageModule, Log: err.Error(), Err: material.ErrCompile}
	}
	defer module.Release()

	topology := wgpu.PrimitiveTopologyTriangleList
	if m.Topology() == model.TopologyLines {
		topology = wgpu.PrimitiveTopologyLineList
	}
	cull := wgpu.CullModeNone
	if m.CullBack() {
		cull = wgpu.CullModeBack
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  m.Name() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: m.VertexEntry(),
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: model.GPUVertexSize,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: m.FragmentEntry(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: m.DepthWrite(),
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return &material.ShaderError{Material: m.Name(), Stage: material.StagePipeline, Log: err.Error(), Err: material.ErrCompile}
	}

	if old, ok := b.pipelines[m.Name()]; ok {
		old.pipeline.Release()
	}
	b.pipelines[m.Name()] = wgpuPipeline{pipeline: created, topology: m.Topology()}
	return nil
}

func (b *wgpuRendererBackendImpl) UploadMesh(key string, mesh *model.Mesh) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexData := mesh.VertexBytes()
	indexData := mesh.IndexBytes()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return model.ErrEmptyMesh
	}

	vertex, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: key + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	index, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: key + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertex.Release()
		return err
	}
	b.queue.WriteBuffer(vertex, 0, vertexData)
	b.queue.WriteBuffer(index, 0, indexData)

	if old, ok := b.meshes[key]; ok {
		old.release()
	}
	b.meshes[key] = &wgpuMesh{
		vertex:     vertex,
		index:      index,
		indexCount: mesh.IndexCount(),
		topology:   meshTopology(mesh),
	}
	return nil
}

// slot returns the per-draw uniform resources for position i, creating them on first use.
// Caller must hold the lock.
func (b *wgpuRendererBackendImpl) slot(i int) (*drawSlot, error) {
	for len(b.slots) <= i {
		n := len(b.slots)
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Draw %d Uniforms", n),
			Size:  material.GPUUniformsSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Draw %d Bind Group", n),
			Layout: b.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  buf,
					Offset:  0,
					Size:    wgpu.WholeSize,
				},
			},
		})
		if err != nil {
			buf.Release()
			return nil, err
		}
		b.slots = append(b.slots, &drawSlot{buffer: buf, bindGroup: bg})
	}
	return b.slots[i], nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return ErrNotInitialized
	}
	// A held surface texture means the previous frame was never presented; acquiring
	// another one fails inside wgpu-native.
	if b.frameSurface != nil {
		return ErrFrameInProgress
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	attachment.ClearValue = wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A}
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(call DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	p, ok := b.pipelines[call.Material]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, call.Material)
	}
	mesh, ok := b.meshes[call.Mesh]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMesh, call.Mesh)
	}
	if mesh.indexCount != call.IndexCount {
		return fmt.Errorf("%w: %d != %d", ErrIndexCount, call.IndexCount, mesh.indexCount)
	}
	if mesh.topology != p.topology {
		return ErrTopologyMismatch
	}

	s, err := b.slot(call.Slot)
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(s.buffer, 0, call.Uniforms.Marshal())

	b.framePass.SetPipeline(p.pipeline)
	b.framePass.SetBindGroup(0, s.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, mesh.vertex, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(call.IndexCount), 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	b.releaseFrameSurface()
	return nil
}

func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.slots {
		s.bindGroup.Release()
		s.buffer.Release()
	}
	b.slots = nil
	for key, m := range b.meshes {
		m.release()
		delete(b.meshes, key)
	}
	for key, p := range b.pipelines {
		p.pipeline.Release()
		delete(b.pipelines, key)
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	b.releaseFrameSurface()
	b.releaseTargets()
	b.renderPassDescriptor = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
